package main

import (
	"flag"
	"fmt"
	"os"

	"gioui.org/app"
	"github.com/vsariola/inputcore"
	"github.com/vsariola/inputcore/cmd"
	"github.com/vsariola/inputcore/gioui"
	"github.com/vsariola/inputcore/midi"
	"github.com/vsariola/inputcore/version"
)

var defaultMidiInput = flag.String("midi-input", "", "connect MIDI input to matching device name prefix")
var bindingsFile = flag.String("bindings", "", "read key bindings from `file` instead of the configuration directory")
var debug = flag.Bool("debug", false, "log debug messages")
var versionFlag = flag.Bool("v", false, "print version and exit")

func main() {
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	logger := cmd.InitLogger(os.Stderr, *debug)
	prefs := inputcore.MakePreferences()
	if prefs.YmlError != nil {
		logger.Warn("preferences ignored", "err", prefs.YmlError)
	}
	path := *bindingsFile
	if path == "" {
		var err error
		if path, err = inputcore.ConfigPath("bindings.yml"); err != nil {
			logger.Warn("no configuration directory", "err", err)
		}
	}
	catalog := inputcore.DefaultActionCatalog()
	bindings := inputcore.LoadOrDefault(path, catalog, logger)
	for _, c := range bindings.Conflicts() {
		logger.Info("shared key binding", "binding", c.Binding, "actions", c.Actions)
	}
	ports := midi.NewPortManager(cmd.NewMIDIDriver(logger), midi.WithBufferSize(prefs.MIDI.BufferSize), midi.WithLogger(logger))
	input := prefs.MIDI.Input
	if isFlagPassed("midi-input") {
		input = *defaultMidiInput
	}
	if input != "" {
		if err := ports.ConnectByPrefix(input); err != nil {
			logger.Warn("failed to open MIDI input", "prefix", input, "err", err)
		}
	}
	router := inputcore.NewRouter(bindings, inputcore.NewGestureRecognizer(prefs.Gesture))
	w := gioui.NewWindow(router, inputcore.NewDispatcher(), ports, prefs)
	go func() {
		w.Main()
		if err := ports.Close(); err != nil {
			logger.Warn("closing MIDI driver failed", "err", err)
		}
		os.Exit(0)
	}()
	app.Main()
}

func isFlagPassed(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
