package service

import (
	"regexp"
	"strings"
)

const (
	SubcommandName    = "name"
	SubcommandAvatar  = "avatar"
	SubcommandURL     = "url"
	SubcommandComment = "comment"
	SubcommandClear   = "clear"
	SubcommandSet     = "set"
)

type KeyValue struct {
	Key   string
	Value string
}

// ParsedCommand is the tokenised form of a display command. Subcommand is
// empty when the prefix was sent alone.
type ParsedCommand struct {
	Subcommand string
	Args       []string
	Pairs      []KeyValue
}

var setPairRegex = regexp.MustCompile(`(\w+)\s*:\s*"([^"]+)"`)

// ParseCommand splits content on single spaces. ok is false when the first
// token is not the prefix, i.e. the message is not a command at all.
func ParseCommand(prefix string, content string) (ParsedCommand, bool) {
	args := strings.Split(content, " ")
	if args[0] != prefix {
		return ParsedCommand{}, false
	}

	var cmd ParsedCommand
	if len(args) < 2 {
		return cmd, true
	}

	cmd.Subcommand = args[1]
	cmd.Args = args[2:]

	if cmd.Subcommand == SubcommandSet {
		input := strings.TrimPrefix(content, prefix+" "+SubcommandSet)
		for _, match := range setPairRegex.FindAllStringSubmatch(input, -1) {
			cmd.Pairs = append(cmd.Pairs, KeyValue{Key: match[1], Value: match[2]})
		}
	}

	return cmd, true
}

// Rest joins every argument after the subcommand back together.
func (c ParsedCommand) Rest() string {
	return strings.TrimSpace(strings.Join(c.Args, " "))
}

// First returns the first argument or "" when there is none.
func (c ParsedCommand) First() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}
