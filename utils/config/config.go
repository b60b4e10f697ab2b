package config

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/term"
)

// Global flags set by the root command before any work starts
var (
	Verbose bool
	Debug   bool
)

// ANSI color codes for console output
const (
	colorReset        = "\033[0m"
	colorBrightRed    = "\033[91m"
	colorBrightGreen  = "\033[92m"
	colorBrightYellow = "\033[93m"
	colorBrightCyan   = "\033[96m"
)

// colorEnabled reports whether stderr supports colored output.
// NO_COLOR is honored per the informal convention.
var colorEnabled = term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == ""

// SetColorEnabled overrides color detection, mainly for tests.
func SetColorEnabled(enabled bool) {
	colorEnabled = enabled
}

func paint(color, text string) string {
	if !colorEnabled {
		return text
	}
	return color + text + colorReset
}

// VerboseLog logs a message when verbose or debug mode is enabled
func VerboseLog(format string, args ...interface{}) {
	if Verbose || Debug {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// DebugLog logs a message when debug mode is enabled
func DebugLog(format string, args ...interface{}) {
	if Debug {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// Message prints a regular progress message to stderr.
func Message(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "  %s %s\n", paint(colorBrightGreen, ">"), fmt.Sprintf(format, args...))
}

// Warning prints a warning to stderr. Processing continues after a warning.
func Warning(format string, args ...interface{}) {
	text := fmt.Sprintf(format, args...)
	if colorEnabled {
		fmt.Fprintf(os.Stderr, "%s[%sWARNING%s]%s %s%s\n",
			colorBrightCyan, colorBrightYellow, colorBrightCyan, colorBrightYellow, text, colorReset)
		return
	}
	fmt.Fprintf(os.Stderr, "[WARNING] %s\n", text)
}

// Error prints an error to stderr without terminating the run.
func Error(format string, args ...interface{}) {
	text := fmt.Sprintf(format, args...)
	if colorEnabled {
		fmt.Fprintf(os.Stderr, "%s[%sERROR%s]%s %s%s\n",
			colorBrightCyan, colorBrightRed, colorBrightCyan, colorBrightRed, text, colorReset)
		return
	}
	fmt.Fprintf(os.Stderr, "[ERROR] %s\n", text)
}

// Info prints a supplementary detail line below an error or warning.
func Info(format string, args ...interface{}) {
	text := fmt.Sprintf(format, args...)
	if colorEnabled {
		fmt.Fprintf(os.Stderr, " %sⓘ  %s%s\n", colorBrightCyan, text, colorReset)
		return
	}
	fmt.Fprintf(os.Stderr, " i  %s\n", text)
}
