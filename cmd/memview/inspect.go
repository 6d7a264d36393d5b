package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/memview/memview/internal/addr"
	"github.com/memview/memview/internal/stack"
	"github.com/memview/memview/object"
	"github.com/memview/memview/profile"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Open an interactive address/object REPL over the image",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := stack.Assemble(finalizeConfig(cmd), profile.DefaultRegistry())
		if err != nil {
			return fmt.Errorf("assembling address space: %w", err)
		}
		printAssembleHeader(result)
		return runInspector(result)
	},
}

// runInspector is the interactive loop: "read", "object", and "write"
// commands over the assembled stack. Grounded on ogle's interactive
// debugging surface for the general shape of a command REPL, and on
// _examples/original_source/plugins/address_spaces/standard.py's
// write_callback for the write-consent confirmation phrase below.
func runInspector(result *stack.Result) error {
	rl, err := readline.New("memview> ")
	if err != nil {
		return fmt.Errorf("starting readline: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "help":
			printInspectHelp()
		case "quit", "exit":
			return nil
		case "read":
			cmdRead(result, fields[1:])
		case "object":
			cmdObject(result, fields[1:])
		case "write":
			cmdWrite(rl, result, fields[1:])
		default:
			fmt.Printf("unknown command %q; try \"help\"\n", fields[0])
		}
	}
}

func printInspectHelp() {
	fmt.Println(`Commands:
  read <addr> <len>               hex-dump len bytes at addr
  object <type> <addr> <field...>  navigate a typed object's fields
  write <addr> <hex bytes>        write bytes, with a consent prompt
  quit                             leave the inspector`)
}

func parseAddr(s string) (addr.Address, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("bad address %q: %w", s, err)
	}
	return addr.Address(v), nil
}

func cmdRead(result *stack.Result, args []string) {
	if len(args) != 2 {
		fmt.Println("usage: read <addr> <len>")
		return
	}
	a, err := parseAddr(args[0])
	if err != nil {
		fmt.Println(err)
		return
	}
	n, err := strconv.ParseInt(args[1], 0, 64)
	if err != nil {
		fmt.Println(err)
		return
	}
	data, ok := result.Top.Read(a, n)
	if !ok {
		fmt.Printf("read failed at %s\n", a)
		return
	}
	fmt.Print(hex.Dump(data))
}

func cmdObject(result *stack.Result, args []string) {
	if len(args) < 2 {
		fmt.Println("usage: object <type> <addr> [field...]")
		return
	}
	a, err := parseAddr(args[1])
	if err != nil {
		fmt.Println(err)
		return
	}
	obj := object.New(result.Profile, args[0], a, result.Top, nil)
	for _, name := range args[2:] {
		obj = obj.Field(name)
	}
	if obj.IsSentinel() {
		fmt.Printf("sentinel: %v\n", obj.Err())
		return
	}
	if v, ok := obj.Uint(); ok {
		fmt.Printf("%#x (%d)\n", v, v)
		return
	}
	if s, ok := obj.String(); ok {
		fmt.Printf("%q\n", s)
		return
	}
	fmt.Printf("<%s object at %s, size %d>\n", obj.TypeName(), obj.Offset(), obj.Size())
}

func cmdWrite(rl *readline.Instance, result *stack.Result, args []string) {
	if len(args) != 2 {
		fmt.Println("usage: write <addr> <hex bytes>")
		return
	}
	a, err := parseAddr(args[0])
	if err != nil {
		fmt.Println(err)
		return
	}
	data, err := hex.DecodeString(args[1])
	if err != nil {
		fmt.Println("bad hex payload:", err)
		return
	}
	writable, ok := result.Top.(interface {
		Write(addr.Address, []byte) bool
	})
	if !ok {
		fmt.Println("this address space was not opened with --write")
		return
	}

	fmt.Printf("About to write %d bytes at %s. Type YES to confirm: ", len(data), a)
	confirm, err := rl.Readline()
	if err != nil || strings.TrimSpace(confirm) != "YES" {
		fmt.Println("write aborted")
		return
	}
	if !writable.Write(a, data) {
		fmt.Println("write rejected")
		return
	}
	fmt.Println("write ok")
}
