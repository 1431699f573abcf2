// Command dostextconv converts text files between UTF-8 and a DOS code
// page using the dostext mapping tables.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/retrotext/dostext"
	"github.com/spf13/pflag"
)

func main() {
	var (
		codePage   = pflag.Uint16P("codepage", "c", 437, "DOS code page number")
		toDOS      = pflag.BoolP("to-dos", "d", false, "convert UTF-8 input to the DOS code page (default: DOS to UTF-8)")
		resourceRoot = pflag.StringP("resource-root", "r", ".", "directory whose mapping/ subdirectory holds MAIN.TXT and its satellite files")
	)
	pflag.Parse()

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, "dostextconv:", err)
		os.Exit(1)
	}

	t := dostext.New(dostext.NewOSResourceLocator(*resourceRoot), dostext.WithDefaultCodePage(*codePage))

	if *toDOS {
		out, ok := t.UTF8ToDOS(string(input))
		os.Stdout.Write(out)
		if !ok {
			fmt.Fprintln(os.Stderr, "dostextconv: some characters had no representation in the target code page")
			os.Exit(1)
		}
		return
	}
	fmt.Fprint(os.Stdout, t.DOSToUTF8(input))
}
