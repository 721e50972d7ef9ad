package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// prompter reads answers to interactive questions from one buffered input.
type prompter struct {
	input  io.Reader
	reader *bufio.Reader
	output io.Writer
}

func newPrompter(input io.Reader, output io.Writer) *prompter {
	return &prompter{input: input, reader: bufio.NewReader(input), output: output}
}

// readLine prints question and returns the next input line without its line ending.
// End of input returns whatever was read so far.
func (prompt *prompter) readLine(question string) (string, error) {
	fmt.Fprint(prompt.output, question)
	line, readError := prompt.reader.ReadString('\n')
	if readError != nil && !errors.Is(readError, io.EOF) {
		return "", readError
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readSecret reads a line without echo when input is a terminal.
func (prompt *prompter) readSecret(question string) (string, error) {
	terminalInput, isFile := prompt.input.(*os.File)
	if !isFile || !term.IsTerminal(int(terminalInput.Fd())) {
		return prompt.readLine(question)
	}
	fmt.Fprint(prompt.output, question)
	secretBytes, readError := term.ReadPassword(int(terminalInput.Fd()))
	fmt.Fprintln(prompt.output)
	if readError != nil {
		return "", readError
	}
	return string(secretBytes), nil
}

// readChoice asks for a 1-based index into a list of optionCount entries.
// A blank answer selects defaultIndex; defaultIndex below zero means no default.
// The second result is false when the answer is not a valid index.
func (prompt *prompter) readChoice(question string, optionCount int, defaultIndex int) (int, bool, error) {
	answer, readError := prompt.readLine(question)
	if readError != nil {
		return 0, false, readError
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return defaultIndex, defaultIndex >= 0, nil
	}
	choice, parseError := strconv.Atoi(answer)
	if parseError != nil || choice < 1 || choice > optionCount {
		return 0, false, nil
	}
	return choice - 1, true, nil
}
