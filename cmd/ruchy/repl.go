package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"

	"github.com/paiml/ruchy-sub011/internal/interp"
	"github.com/paiml/ruchy-sub011/internal/runtime"
	"github.com/paiml/ruchy-sub011/internal/session"
	"github.com/paiml/ruchy-sub011/internal/toolcfg"
)

const replVersion = "0.1.0"

func repl() int {
	cfg, err := toolcfg.Discover(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "ruchy: %v\n", err)
		cfg = toolcfg.Default()
	}

	var history *session.History
	if cfg.Repl.HistoryFile != "" {
		history, err = session.OpenHistory(cfg.Repl.HistoryFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ruchy: history disabled: %v\n", err)
		} else {
			defer history.Close()
		}
	}

	if cfg.Repl.Banner {
		pterm.DefaultBasicText.
			Println(pterm.LightCyan("ruchy ") + pterm.Gray("v"+replVersion) +
				pterm.Gray("  (:help for commands, :quit to exit)"))
	}

	in := interp.New()
	in.GCSetThreshold(cfg.Run.GCThreshold)
	in.GCSetAutoCollect(cfg.Run.GCAuto)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var pending strings.Builder
	for {
		prompt := ">>> "
		if pending.Len() > 0 {
			prompt = "... "
		}
		fmt.Print(prompt)
		if !scanner.Scan() {
			fmt.Println()
			return exitOK
		}
		line := scanner.Text()

		if pending.Len() == 0 && strings.HasPrefix(line, ":") {
			if done := replCommand(line, history); done {
				return exitOK
			}
			continue
		}

		pending.WriteString(line)
		pending.WriteString("\n")
		input := pending.String()
		if openBrackets(input) > 0 {
			continue
		}
		pending.Reset()

		if strings.TrimSpace(input) == "" {
			continue
		}
		if history != nil {
			if err := history.Append(strings.TrimSuffix(input, "\n")); err != nil {
				fmt.Fprintf(os.Stderr, "ruchy: history: %v\n", err)
			}
		}

		v, err := in.EvalString(input)
		if err != nil {
			reportEvalError(input, "<stdin>", "text", err)
			continue
		}
		if _, isUnit := v.(runtime.Unit); !isUnit {
			fmt.Println(runtime.Inspect(v))
		}
	}
}

// replCommand handles `:`-prefixed meta commands. It reports whether the
// session should end.
func replCommand(line string, history *session.History) bool {
	switch cmd := strings.TrimSpace(line); cmd {
	case ":quit", ":q", ":exit":
		return true
	case ":help", ":h":
		fmt.Println("  :help       show this help")
		fmt.Println("  :history    show recent inputs")
		fmt.Println("  :clear      clear recorded history")
		fmt.Println("  :quit       exit the session")
	case ":history":
		if history == nil {
			fmt.Println("history is disabled")
			return false
		}
		entries, err := history.Last(20)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ruchy: %v\n", err)
			return false
		}
		for i, e := range entries {
			fmt.Printf("%3d  %s\n", i+1, e)
		}
	case ":clear":
		if history == nil {
			fmt.Println("history is disabled")
			return false
		}
		if err := history.Clear(); err != nil {
			fmt.Fprintf(os.Stderr, "ruchy: %v\n", err)
		}
	default:
		fmt.Printf("unknown command %s (:help for commands)\n", cmd)
	}
	return false
}

// openBrackets counts unclosed delimiters so multi-line inputs keep reading.
// String and comment interiors are skipped.
func openBrackets(src string) int {
	depth := 0
	inString := false
	inChar := false
	inLineComment := false
	escaped := false
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case inLineComment:
			if c == '\n' {
				inLineComment = false
			}
		case inString || inChar:
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if inString && c == '"' {
				inString = false
			} else if inChar && c == '\'' {
				inChar = false
			}
		default:
			switch c {
			case '"':
				inString = true
			case '\'':
				// Labels like 'outer are a lone quote; only treat as a char
				// literal when a closing quote is near.
				if i+2 < len(src) && (src[i+2] == '\'' || (src[i+1] == '\\' && i+3 < len(src))) {
					inChar = true
				}
			case '/':
				if i+1 < len(src) && src[i+1] == '/' {
					inLineComment = true
				}
			case '(', '[', '{':
				depth++
			case ')', ']', '}':
				depth--
			}
		}
	}
	return depth
}
