package colors

import (
	"fmt"
	"time"
)

// ANSI color codes
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"

	// Regular colors
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
	Gray    = "\033[90m"

	// Bright colors
	BrightRed     = "\033[91m"
	BrightGreen   = "\033[92m"
	BrightYellow  = "\033[93m"
	BrightBlue    = "\033[94m"
	BrightMagenta = "\033[95m"
	BrightCyan    = "\033[96m"
	BrightWhite   = "\033[97m"
)

// PrintInfo prints informational messages with cyan color
func PrintInfo(format string, args ...interface{}) {
	timestamp := time.Now().Format("15:04:05")
	fmt.Printf("%s[%s]%s %si%s  %s%s%s\n",
		Gray, timestamp, Reset,
		Cyan, Reset,
		BrightCyan, fmt.Sprintf(format, args...), Reset)
}

// PrintSuccess prints success messages with green color
func PrintSuccess(format string, args ...interface{}) {
	timestamp := time.Now().Format("15:04:05")
	fmt.Printf("%s[%s]%s %s+%s %s%s%s\n",
		Gray, timestamp, Reset,
		Green, Reset,
		BrightGreen, fmt.Sprintf(format, args...), Reset)
}

// PrintWarning prints warning messages with yellow color
func PrintWarning(format string, args ...interface{}) {
	timestamp := time.Now().Format("15:04:05")
	fmt.Printf("%s[%s]%s %s!%s %s%s%s\n",
		Gray, timestamp, Reset,
		Yellow, Reset,
		BrightYellow, fmt.Sprintf(format, args...), Reset)
}

// PrintError prints error messages with red color
func PrintError(format string, args ...interface{}) {
	timestamp := time.Now().Format("15:04:05")
	fmt.Printf("%s[%s]%s %sx%s %s%s%s\n",
		Gray, timestamp, Reset,
		Red, Reset,
		BrightRed, fmt.Sprintf(format, args...), Reset)
}

// PrintDebug prints debug messages with gray color
func PrintDebug(format string, args ...interface{}) {
	timestamp := time.Now().Format("15:04:05")
	fmt.Printf("%s[%s] %s%s\n",
		Gray, timestamp, fmt.Sprintf(format, args...), Reset)
}

// PrintHeader prints header messages with bold styling
func PrintHeader(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Printf("\n%s%s== %s ==%s\n\n", BrightBlue, Bold, message, Reset)
}

// PrintSubHeader prints sub-header messages
func PrintSubHeader(format string, args ...interface{}) {
	fmt.Printf("%s%s> %s%s\n", BrightMagenta, Bold, fmt.Sprintf(format, args...), Reset)
}

// PrintServer prints server-related messages
func PrintServer(format string, args ...interface{}) {
	timestamp := time.Now().Format("15:04:05")
	fmt.Printf("%s[%s]%s %s*%s %s%s%s\n",
		Gray, timestamp, Reset,
		BrightBlue, Reset,
		White, fmt.Sprintf(format, args...), Reset)
}

// PrintEndpoint prints API endpoint information
func PrintEndpoint(method, path, description string) {
	var methodColor string
	switch method {
	case "GET":
		methodColor = BrightGreen
	case "POST":
		methodColor = BrightBlue
	case "PUT":
		methodColor = BrightYellow
	case "DELETE":
		methodColor = BrightRed
	default:
		methodColor = White
	}

	fmt.Printf("  %s%-6s%s %s%-40s%s %s%s%s\n",
		methodColor, method, Reset,
		Cyan, path, Reset,
		Gray, description, Reset)
}

// PrintBanner prints the application banner
func PrintBanner() {
	fmt.Printf("\n%s%sClassroom Device Control Server%s\n", BrightCyan, Bold, Reset)
	fmt.Printf("%sdevice fleet management, audit log and telemetry%s\n\n", Gray, Reset)
}

// PrintShutdown prints shutdown message
func PrintShutdown() {
	fmt.Printf("\n%s%sShutdown initiated, closing connections...%s\n", BrightRed, Bold, Reset)
}
