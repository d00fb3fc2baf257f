package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "dump":
		err = cmdDump(os.Args[2:])
	case "load":
		err = cmdLoad(os.Args[2:])
	case "graph":
		err = cmdGraph(os.Args[2:])
	case "check":
		err = cmdCheck(os.Args[2:])
	case "help", "-h", "--help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `jclass: JVM class file decoder

Usage:
  jclass dump  [-format text|json|yaml] [-config f] <path>...   Decode and print classes
  jclass load  [-cp path,...] [-jdk] <class name>...             Look classes up on a classpath
  jclass graph [-o file] [-title t] <path>...                    Class reference graph as DOT
  jclass check <path>...                                         Decode only, report failures

A path is a .class file, a classpath directory, a .jar or a .jmod.
Every command also takes -config, -workers, -max-array-depth and -v.
`)
}
