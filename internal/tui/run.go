package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Run 封装 Bubble Tea 入口，在全屏模式下运行直到用户退出。
func Run(opts Options) error {
	model := New(opts)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := program.Run()
	model.dispose()
	if err != nil {
		return err
	}
	if _, ok := final.(*Model); !ok {
		return errors.New("unexpected tui model")
	}
	return nil
}
