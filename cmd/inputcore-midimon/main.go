package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vsariola/inputcore"
	"github.com/vsariola/inputcore/cmd"
	"github.com/vsariola/inputcore/midi"
)

var cheatsheetFlag = flag.Bool("cheatsheet", false, "print the key bindings and exit")
var bindingsFile = flag.String("bindings", "", "read key bindings from `file` instead of the configuration directory")
var logFile = flag.String("log", "", "write log messages to `file`")
var debug = flag.Bool("debug", false, "log debug messages")

func main() {
	flag.Parse()
	var logOut io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := cmd.InitLogger(logOut, *debug)
	if *cheatsheetFlag {
		path := *bindingsFile
		if path == "" {
			path, _ = inputcore.ConfigPath("bindings.yml")
		}
		bindings := inputcore.LoadOrDefault(path, inputcore.DefaultActionCatalog(), logger)
		if err := bindings.Cheatsheet(os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}
	prefs := inputcore.MakePreferences()
	ports := midi.NewPortManager(cmd.NewMIDIDriver(logger), midi.WithBufferSize(prefs.MIDI.BufferSize), midi.WithLogger(logger))
	defer ports.Close()
	p := tea.NewProgram(newModel(ports), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
