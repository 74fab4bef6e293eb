package zylisp

import (
	"log"
	"os"
	"strings"

	"github.com/glycerine/liner"
)

// Prompter wraps the liner line editor: prompt, history file and tab
// completion over the names bound in the root scope.
type Prompter struct {
	prompt      string
	historyFile string
	prompter    *liner.State
}

func NewPrompter(prompt, historyFile string, root *Scope) *Prompter {
	p := &Prompter{
		prompt:      prompt,
		historyFile: historyFile,
		prompter:    liner.NewLiner(),
	}

	p.prompter.SetCtrlCAborts(false)
	p.prompter.SetCompleter(func(line string) (c []string) {
		return completions(root, line)
	})

	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			p.prompter.ReadHistory(f)
			f.Close()
		}
	}
	return p
}

// completions offers "(name " for every root binding that extends the
// atom being typed after the last open paren.
func completions(root *Scope, line string) (c []string) {
	i := strings.LastIndexAny(line, "([{ ")
	head, word := line[:i+1], line[i+1:]
	if i < 0 || line[i] == ' ' {
		return nil
	}
	for _, n := range root.Names() {
		if strings.HasPrefix(n, word) {
			c = append(c, head+n+" ")
		}
	}
	return
}

func (p *Prompter) Close() {
	defer p.prompter.Close()
	if p.historyFile == "" {
		return
	}
	if f, err := os.Create(p.historyFile); err != nil {
		log.Print("Error writing history file: ", err)
	} else {
		p.prompter.WriteHistory(f)
		f.Close()
	}
}

func (p *Prompter) Getline(prompt *string) (line string, err error) {
	if prompt == nil {
		line, err = p.prompter.Prompt(p.prompt)
	} else {
		line, err = p.prompter.Prompt(*prompt)
	}
	if err == nil {
		if strings.TrimSpace(line) != "" {
			p.prompter.AppendHistory(line)
		}
		return line, nil
	}
	return "", err
}
