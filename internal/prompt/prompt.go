package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInputMissing is returned when input ends before a required value was given.
var ErrInputMissing = errors.New("required input missing")

type IO struct {
	in  *bufio.Reader
	out io.Writer
}

func NewIO(in io.Reader, out io.Writer) *IO {
	return &IO{in: bufio.NewReader(in), out: out}
}

func (p *IO) AskString(label string, current *string, validate func(string) error) (string, error) {
	for {
		if current != nil && *current != "" {
			fmt.Fprintf(p.out, "%s [%s]: ", label, *current)
		} else {
			fmt.Fprintf(p.out, "%s: ", label)
		}
		line, eof, err := p.readLine()
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(line) == "" && current != nil && *current != "" {
			line = *current
		}
		line = strings.TrimSpace(line)
		if validate != nil {
			if err := validate(line); err != nil {
				if eof {
					fmt.Fprintln(p.out)
					return "", fmt.Errorf("%s: %w", label, ErrInputMissing)
				}
				fmt.Fprintf(p.out, "  Error: %v\n", err)
				continue
			}
		}
		return line, nil
	}
}

// AskRequired asks for a non-empty value and re-prompts on empty input.
func (p *IO) AskRequired(label string) (string, error) {
	return p.AskString(label, nil, func(s string) error {
		if s == "" {
			return fmt.Errorf("a value is required")
		}
		return nil
	})
}

// AskYesNo asks a confirmation question. Empty input, including exhausted
// input, selects defaultYes.
func (p *IO) AskYesNo(label string, defaultYes bool) (bool, error) {
	def := "y/N"
	if defaultYes {
		def = "Y/n"
	}
	for {
		fmt.Fprintf(p.out, "%s (%s): ", label, def)
		line, eof, err := p.readLine()
		if err != nil {
			return false, err
		}
		line = strings.TrimSpace(strings.ToLower(line))
		if line == "" {
			if eof {
				fmt.Fprintln(p.out)
			}
			return defaultYes, nil
		}
		switch line {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			if eof {
				return false, fmt.Errorf("%s: %w", label, ErrInputMissing)
			}
			fmt.Fprintf(p.out, "  Error: please answer yes or no\n")
		}
	}
}

func (p *IO) readLine() (string, bool, error) {
	line, err := p.in.ReadString('\n')
	if err == io.EOF {
		return strings.TrimRight(line, "\r\n"), true, nil
	}
	if err != nil {
		return "", false, err
	}
	return strings.TrimRight(line, "\r\n"), false, nil
}
