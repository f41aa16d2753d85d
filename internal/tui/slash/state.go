package slash

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// ErrNotCommand 表示输入不是斜杠命令。
var ErrNotCommand = errors.New("not a slash command")

// Invocation 是一次解析后的命令调用。
type Invocation struct {
	Command Command
	Args    string
}

// Parse 解析以 "/" 开头的输入。未知命令返回错误，错误信息包含最接近的候选。
func Parse(input string) (Invocation, error) {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/") {
		return Invocation{}, ErrNotCommand
	}
	name, args, _ := strings.Cut(trimmed[1:], " ")
	name = strings.ToLower(strings.TrimSpace(name))
	for _, item := range Builtins() {
		if item.Token() == name {
			return Invocation{Command: item.Command, Args: strings.TrimSpace(args)}, nil
		}
	}
	if matches := Complete(name); len(matches) > 0 {
		return Invocation{}, fmt.Errorf("unknown command /%s (did you mean %s?)", name, matches[0].DisplayName())
	}
	return Invocation{}, fmt.Errorf("unknown command /%s", name)
}

// Complete 返回按模糊匹配得分排序的命令；空前缀返回全部内置命令。
func Complete(prefix string) []Item {
	items := Builtins()
	trimmed := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(prefix, "/")))
	if trimmed == "" {
		return items
	}
	keys := make([]string, 0, len(items))
	for _, item := range items {
		keys = append(keys, item.Token())
	}
	results := fuzzy.Find(trimmed, keys)
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score == results[j].Score {
			return results[i].Str < results[j].Str
		}
		return results[i].Score > results[j].Score
	})
	out := make([]Item, 0, len(results))
	for _, res := range results {
		out = append(out, items[res.Index])
	}
	return out
}

// Source 是可供 fuzzy 检索的文本集合。
type Source interface {
	String(i int) string
	Len() int
}

// Best 在 src 中查找与 query 最匹配的下标；没有匹配时 ok 为 false。
func Best(query string, src Source) (int, bool) {
	query = strings.TrimSpace(query)
	if query == "" || src == nil || src.Len() == 0 {
		return -1, false
	}
	results := fuzzy.FindFrom(query, src)
	if len(results) == 0 {
		return -1, false
	}
	best := results[0]
	for _, r := range results[1:] {
		if r.Score > best.Score {
			best = r
		}
	}
	return best.Index, true
}
