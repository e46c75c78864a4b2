package termloom

import (
	"flag"
	"fmt"
	"io"
	"os"
)

var (
	debugOutput     io.Writer = os.Stderr
	debugFile                 = flag.String("debugFile", "", "File to send debug info to")
	debugInitCalled           = false

	debugNodes   = flag.Bool("debugNodes", false, "Print every parsed node")
	debugText    = flag.Bool("debugText", false, "Print all text written to the grid")
	debugIgnored = flag.Bool("debugIgnored", true, "Print ignored control functions")
	debugErrors  = flag.Bool("debugErrors", true, "Print errors")
)

func initDebug() {
	debugInitCalled = true
	if *debugFile != "" {
		f, err := os.OpenFile(*debugFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			panic(err)
		}
		debugOutput = f
	}
}

func debugPrintln(debugFlag *bool, args ...interface{}) {
	if !debugInitCalled {
		initDebug()
	}
	if *debugFlag {
		fmt.Fprintln(debugOutput, args...)
	}
}

func debugPrintf(debugFlag *bool, f string, args ...interface{}) {
	if !debugInitCalled {
		initDebug()
	}
	if *debugFlag {
		fmt.Fprintf(debugOutput, f, args...)
	}
}
