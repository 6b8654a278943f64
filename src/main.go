package main

import (
	"fmt"
	"io"
	"os"

	"vslc/src/ir"
	llvmb "vslc/src/ir/llvm"
	"vslc/src/util"
)

// run reads a JSON-encoded CompilerIR from opt.Src (or stdin), lowers it to
// an LLVM module, and writes the module's textual IR to opt.Out (or stdout).
func run(opt util.Options) error {
	data, err := readInput(opt.Src)
	if err != nil {
		return fmt.Errorf("could not read compiler IR: %s", err)
	}

	compilerIR, err := ir.Decode(data)
	if err != nil {
		return fmt.Errorf("could not decode compiler IR: %s", err)
	}

	mod, err := llvmb.Build(compilerIR, llvmb.Options{
		ModuleName: "braidprogram",
		Verbose:    opt.Verbose,
	})
	if err != nil {
		return fmt.Errorf("code generation error: %s", err)
	}
	defer mod.Dispose()

	return writeOutput(opt.Out, mod.String())
}

// readInput reads the full JSON IR document from path, or stdin if path is
// empty.
func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// writeOutput writes s to path, creating or truncating it, or to stdout if
// path is empty.
func writeOutput(path, s string) error {
	if path == "" {
		_, err := fmt.Print(s)
		return err
	}
	f, err := os.OpenFile(path, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(s)
	return err
}

func main() {
	opt, err := util.ParseArgs()
	if err != nil {
		fmt.Printf("Command line argument error: %s\n", err)
		os.Exit(1)
	}

	if err := run(opt); err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
}
