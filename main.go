package main

import (
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"os/exec"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/pontaoski/plaia/ast"
	"github.com/pontaoski/plaia/concrete"
	"github.com/pontaoski/plaia/machine"
	"github.com/pontaoski/plaia/parser"
	"github.com/pontaoski/plaia/sign"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"
)

var verbose = log.New(ioutil.Discard, "plaia: ", 0)

// parseFile reads and parses a module, returning its source text as well
// for trace printing.
func parseFile(file string) (*ast.Module, string, error) {
	data, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, "", tracerr.Wrap(err)
	}

	mod, err := parser.ParseModule(strings.NewReader(string(data)), file)
	if err != nil {
		return nil, "", err
	}
	verbose.Printf("parsed %s: %d globals, %d functions", file, len(mod.Globals), len(mod.Functions))
	return mod, string(data), nil
}

// entryFile resolves the module file a command works on: the first argument,
// or the configured entry.
func entryFile(c *cli.Context, doc plaiaModule) (string, error) {
	if file := c.Args().First(); file != "" {
		return file, nil
	}
	if doc.Entry != "" {
		return doc.Entry, nil
	}
	return "", cli.Exit("no file given and no entry in "+moduleFile, 1)
}

// splitRunArgs separates the module file from the program arguments of
// `plaia run`. With an entry configured, the first argument names a file
// only when it ends in .plaia; everything else goes to main.
func splitRunArgs(args []string, doc plaiaModule) (file string, rest []string, err error) {
	switch {
	case len(args) > 0 && strings.HasSuffix(args[0], ".plaia"):
		return args[0], args[1:], nil
	case doc.Entry != "":
		return doc.Entry, args, nil
	case len(args) > 0:
		return args[0], args[1:], nil
	}
	return "", nil, cli.Exit("no file given and no entry in "+moduleFile, 1)
}

func machineOptions(c *cli.Context, doc plaiaModule) machine.Options {
	depth := doc.maxDepth()
	if c.IsSet("max-depth") {
		depth = c.Int("max-depth")
	}
	return machine.Options{MaxDepth: depth}
}

func tracing(c *cli.Context, doc plaiaModule) bool {
	return doc.trace() && !c.Bool("no-trace")
}

func printFrame[V any](w io.Writer, m *machine.Machine[V]) {
	fmt.Fprintln(w, "Frame:")
	if m.Depth() > 0 {
		machine.PrintStore(w, m.Heap(), m.Frame())
	}
}

var interpreterFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:  "no-trace",
		Usage: "do not record or print the execution trace",
	},
	&cli.IntFlag{
		Name:  "max-depth",
		Usage: "maximum number of live call frames",
	},
}

func main() {
	var doc plaiaModule

	app := &cli.App{
		Name:  "plaia",
		Usage: "plaia interpreter and sign analyzer",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				verbose.SetOutput(os.Stderr)
			}

			var err error
			doc, err = readModule(moduleFile)
			return err
		},
		ExitErrHandler: func(context *cli.Context, err error) {
			if err == nil {
				return
			}
			if _, ok := err.(cli.ExitCoder); ok {
				cli.HandleExitCoder(err)
				return
			}
			tracerr.PrintSourceColor(err)
			log.Fatalf("error with plaia: %s", tracerr.Unwrap(err))
		},
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "init a directory",
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						return cli.Exit("no module name provided", 1)
					}
					return writeModule(moduleFile, plaiaModule{
						Package: name,
						Entry:   name + ".plaia",
					})
				},
			},
			{
				Name:      "run",
				Usage:     "run a module from its main function",
				ArgsUsage: "[file] [args...]",
				Flags:     interpreterFlags,
				Action: func(c *cli.Context) error {
					file, rest, err := splitRunArgs(c.Args().Slice(), doc)
					if err != nil {
						return err
					}
					mod, src, err := parseFile(file)
					if err != nil {
						return err
					}

					args := doc.Args
					if len(rest) > 0 {
						args = rest
					}
					verbose.Printf("running %s with %v", file, args)

					m, val, err := concrete.Run(mod, args, concrete.Options{
						Options: machineOptions(c, doc),
						Trace:   tracing(c, doc),
					})
					if tracing(c, doc) {
						verbose.Printf("recorded %d steps", len(m.Trace()))
						concrete.PrintTrace(os.Stdout, m, src)
					}
					if err != nil {
						return err
					}

					printFrame(os.Stdout, m)
					fmt.Printf("Result: %s\n", val)
					return nil
				},
			},
			{
				Name:      "analyze",
				Usage:     "run a module over the signs of its integers",
				ArgsUsage: "[file]",
				Flags:     interpreterFlags,
				Action: func(c *cli.Context) error {
					file, err := entryFile(c, doc)
					if err != nil {
						return err
					}
					mod, src, err := parseFile(file)
					if err != nil {
						return err
					}
					verbose.Printf("analyzing %s", file)

					m, val, err := sign.Analyze(mod, sign.Options{
						Options: machineOptions(c, doc),
						Trace:   tracing(c, doc),
					})
					if tracing(c, doc) {
						sign.PrintTrace(os.Stdout, m, src)
					}
					if err != nil {
						return err
					}

					printFrame(os.Stdout, m)
					fmt.Printf("Result: %s\n", val)
					return nil
				},
			},
			{
				Name:      "dump",
				Usage:     "print the syntax tree of a module",
				ArgsUsage: "[file]",
				Action: func(c *cli.Context) error {
					file, err := entryFile(c, doc)
					if err != nil {
						return err
					}
					mod, _, err := parseFile(file)
					if err != nil {
						return err
					}
					repr.Println(mod)
					return nil
				},
			},
			{
				Name:      "typeinfo",
				Usage:     "list the functions of a built module",
				ArgsUsage: "<file.ll>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "raw",
						Usage: "dump the whole table",
					},
				},
				Action: func(c *cli.Context) error {
					file := c.Args().First()
					if file == "" {
						return cli.Exit("no file given", 1)
					}
					table, err := readFunctionTable(file)
					if err != nil {
						return err
					}
					if c.Bool("raw") {
						repr.Println(table)
						return nil
					}
					printFunctionTable(os.Stdout, table)
					return nil
				},
			},
			{
				Name:      "build",
				Usage:     "lower a module to LLVM IR",
				ArgsUsage: "[file]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name: "output",
					},
					&cli.BoolFlag{
						Name:  "dump",
						Value: false,
					},
					&cli.BoolFlag{
						Name:  "native",
						Usage: "compile the IR to an executable with clang",
						Value: false,
					},
				},
				Action: func(c *cli.Context) error {
					file, err := entryFile(c, doc)
					if err != nil {
						return err
					}
					mod, _, err := parseFile(file)
					if err != nil {
						return err
					}

					irModule, err := codegen(doc.Package, mod)
					if err != nil {
						return err
					}
					module := irModule.String()

					if c.Bool("dump") {
						fmt.Println(module)
						return nil
					}

					out := c.String("output")
					if out == "" {
						out = doc.Package
					}
					if out == "" {
						out = strings.TrimSuffix(file, ".plaia")
					}

					ll := out
					if !strings.HasSuffix(ll, ".ll") {
						ll += ".ll"
					}
					err = ioutil.WriteFile(ll, []byte(module), 0644)
					if err != nil {
						return tracerr.Wrap(err)
					}
					verbose.Printf("wrote %s", ll)

					if !c.Bool("native") {
						return nil
					}

					cmd := exec.Command("clang", "-o", strings.TrimSuffix(out, ".ll"), ll)
					cmd.Stdout = os.Stdout
					cmd.Stderr = os.Stderr

					return tracerr.Wrap(cmd.Run())
				},
			},
			{
				Name:  "repl",
				Usage: "execute statements interactively",
				Flags: interpreterFlags,
				Action: func(c *cli.Context) error {
					return repl(machineOptions(c, doc), tracing(c, doc))
				},
			},
		},
	}
	app.Run(os.Args)
}
