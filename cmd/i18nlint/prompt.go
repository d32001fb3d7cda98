package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tangzhangming/i18nlint/internal/i18n"
)

// terminalPrompter 在终端中询问用户
type terminalPrompter struct {
	in  *bufio.Reader
	out io.Writer

	// assumeYes 跳过确认
	assumeYes bool
}

func newTerminalPrompter(in io.Reader, out io.Writer, assumeYes bool) *terminalPrompter {
	return &terminalPrompter{in: bufio.NewReader(in), out: out, assumeYes: assumeYes}
}

// InputKey 读取一行输入，不合法时提示并重新读取；空行或 EOF 视为取消
func (p *terminalPrompter) InputKey(ctx context.Context, prompt, initial string, validate func(string) string) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		fmt.Fprintf(p.out, "%s [%s]: ", prompt, initial)

		line, err := p.readLine()
		if err != nil {
			return "", err
		}
		if line == "" {
			return "", nil
		}
		if !strings.HasPrefix(line, initial) && validate(line) != "" && validate(initial+line) == "" {
			line = initial + line
		}
		msg := validate(line)
		if msg == "" {
			return line, nil
		}
		fmt.Fprintln(p.out, msg)
	}
}

// Confirm 读取 y/n
func (p *terminalPrompter) Confirm(ctx context.Context, message string) (bool, error) {
	if p.assumeYes {
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(p.out, "%s [%s/%s]: ", message, i18n.T(i18n.MsgYes), i18n.T(i18n.MsgNo))

	line, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes", strings.ToLower(i18n.T(i18n.MsgYes)):
		return true, nil
	}
	return false, nil
}

// readLine 读取一行；EOF 返回空行
func (p *terminalPrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
