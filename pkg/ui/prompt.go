package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// PromptForConfirmation prompts the user for yes/no confirmation.
// Supports y, yes, Y, YES (yes) and anything else (no).
func PromptForConfirmation(prompt string) bool {
	return PromptForConfirmationReader(prompt, os.Stdin)
}

// PromptForConfirmationReader is PromptForConfirmation with an injectable input.
func PromptForConfirmationReader(prompt string, in io.Reader) bool {
	if prompt == "" {
		prompt = "Continue? (y/n): "
	}

	fmt.Printf("%s ", prompt)
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false
	}

	input := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return strings.HasPrefix(input, "y")
}

// DisplayNumberedList displays a numbered list of options.
func DisplayNumberedList(items []string) {
	for i, item := range items {
		fmt.Printf("%d. %s\n", i+1, item)
	}
}
