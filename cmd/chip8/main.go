// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"maps"
	"os"

	"github.com/ezrec/chip8/config"
	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/internal"
)

func main() {
	var compile string
	var rom string
	var output string
	var configFile string
	var limit int
	var state string
	var resume string
	var listing bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".asm file to compile")
	flag.StringVar(&rom, "b", "", ".rom image to load")
	flag.StringVar(&output, "o", "", "Write program image to .rom file, do not execute")
	flag.StringVar(&configFile, "f", "", "chip8.toml configuration file")
	flag.IntVar(&limit, "n", 0, "Tick limit (0 or less is unlimited)")
	flag.StringVar(&state, "s", "", "Save final machine state to .cbor file")
	flag.StringVar(&resume, "r", "", "Resume from a .cbor machine state")
	flag.BoolVar(&listing, "l", false, "Print a disassembly listing, do not execute")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(compile) != 0 && len(rom) != 0 {
		log.Fatalf("%v: -c and -b are mutually exclusive", os.Args[0])
	}

	conf := &config.Config{Origin: emulator.ORIGIN, Defines: map[string]string{}}
	if len(configFile) != 0 {
		var err error
		conf, err = config.Load(configFile)
		if err != nil {
			log.Fatalf("%v: %v", configFile, err)
		}
	}

	// Explicit flags override the configuration file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "n":
			conf.Limit = limit
		case "v":
			conf.Verbose = verbose
		}
	})

	emu := emulator.NewEmulator()
	emu.Verbose = conf.Verbose
	emu.Origin = conf.Origin

	// Compile a new instruction stream.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: conf.Verbose}
		defines := internal.IterSeq2Collect(internal.IterSeq2Concat(
			emu.Defines(),
			maps.All(conf.Defines),
		))
		for key, value := range defines {
			asm.Predefine(key, value)
		}

		emu.Program, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		emu.Rom.Data = emu.Program.Binary()
	}

	// Load a raw program image.
	if len(rom) != 0 {
		inf, err := os.Open(rom)
		if err != nil {
			log.Fatalf("%v: %v", rom, err)
		}
		defer inf.Close()

		_, err = emu.Rom.ReadFrom(inf)
		if err != nil {
			log.Fatalf("%v: %v", rom, err)
		}
	}

	if listing {
		err := emu.Rom.Listing(os.Stdout)
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	if len(output) != 0 {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()

		_, err = emu.Rom.WriteTo(ouf)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		return
	}

	err := emu.Reset()
	if err != nil {
		log.Fatal(err)
	}

	if len(resume) != 0 {
		inf, err := os.Open(resume)
		if err != nil {
			log.Fatalf("%v: %v", resume, err)
		}
		defer inf.Close()

		err = emu.LoadState(inf)
		if err != nil {
			log.Fatalf("%v: %v", resume, err)
		}
	}

	err = emu.Run(conf.Limit)

	if len(state) != 0 {
		ouf, serr := os.Create(state)
		if serr != nil {
			log.Fatalf("%v: %v", state, serr)
		}
		defer ouf.Close()

		serr = emu.SaveState(ouf)
		if serr != nil {
			log.Fatalf("%v: %v", state, serr)
		}
	}

	if errors.Is(err, emulator.ErrTickLimit) {
		log.Printf("%v: stopped after %v ticks at %03x: %v", os.Args[0], emu.Ticks(), emu.Ip(), emu.Code())
	} else if err != nil {
		log.Fatal(err)
	}

	fmt.Print(emu.Cpu.String())
}
