package main

import (
	"os"
	"path/filepath"
)

// jmodGlobs are searched when neither JAVA_BASE_JMOD nor JAVA_HOME names a
// usable java.base.jmod.
var jmodGlobs = []string{
	"/usr/lib/jvm/java-*-openjdk-*/jmods/java.base.jmod",
	"/usr/lib/jvm/*/jmods/java.base.jmod",
	"/Library/Java/JavaVirtualMachines/*/Contents/Home/jmods/java.base.jmod",
}

// findJmodPath locates java.base.jmod, "" when there is none.
func findJmodPath() string {
	if env := os.Getenv("JAVA_BASE_JMOD"); env != "" {
		return env
	}
	if home := os.Getenv("JAVA_HOME"); home != "" {
		p := filepath.Join(home, "jmods", "java.base.jmod")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, g := range jmodGlobs {
		if matches, _ := filepath.Glob(g); len(matches) > 0 {
			return matches[0]
		}
	}
	return ""
}
