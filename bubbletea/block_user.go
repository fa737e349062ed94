package bubbletea

import "strings"

var _ MessageBlock = (*UserTurnBlock)(nil)

// UserTurnBlock renders a user turn with a "> " prefix. Wrapping is
// display-width aware because user input may contain wide characters.
type UserTurnBlock struct {
	text   string
	styles Styles
}

// NewUserTurnBlock creates a UserTurnBlock.
func NewUserTurnBlock(text string, styles Styles) *UserTurnBlock {
	return &UserTurnBlock{text: text, styles: styles}
}

func (b *UserTurnBlock) View(width int) string {
	avail := width - 2
	if avail < 10 {
		avail = 10
	}
	prefix := b.styles.UserMsg.Render("> ")
	lines := wrapText(b.text, avail)
	var sb strings.Builder
	for i, line := range lines {
		if i == 0 {
			sb.WriteString(prefix + line)
		} else {
			sb.WriteString("\n  " + line)
		}
	}
	return sb.String()
}
