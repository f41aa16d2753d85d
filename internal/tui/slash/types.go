// Package slash 解析输入框中的斜杠命令并提供模糊补全。
package slash

import "strings"

// Command 表示内置斜杠命令的标识符。
type Command string

const (
	CommandCopy   Command = "copy"
	CommandFind   Command = "find"
	CommandDelete Command = "delete"
	CommandHelp   Command = "help"
	CommandQuit   Command = "quit"
	CommandExit   Command = "exit"
)

// Item 代表补全列表中的一行条目。
type Item struct {
	Command     Command
	Usage       string
	Description string
}

// Token 返回无前导斜杠的匹配键。
func (i Item) Token() string {
	return string(i.Command)
}

// DisplayName 返回带前缀斜杠的展示名称。
func (i Item) DisplayName() string {
	token := i.Token()
	if token == "" {
		return ""
	}
	if strings.HasPrefix(token, "/") {
		return token
	}
	return "/" + token
}

// Builtins 返回内置命令，顺序即默认展示顺序。
func Builtins() []Item {
	return []Item{
		{Command: CommandCopy, Description: "copy the newest message to the clipboard"},
		{Command: CommandFind, Usage: "<text>", Description: "jump to the best matching message"},
		{Command: CommandDelete, Usage: "[id]", Description: "delete a message (default: your newest)"},
		{Command: CommandHelp, Description: "show key bindings"},
		{Command: CommandQuit, Description: "exit chatlist"},
		{Command: CommandExit, Description: "exit chatlist"},
	}
}
