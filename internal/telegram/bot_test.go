package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sman1la/tatib-bot/internal/engine"
)

func TestKeyboard(t *testing.T) {
	rows := [][]engine.Button{
		{{Label: "Kelas X", Data: "tier:X"}, {Label: "Kelas XI", Data: "tier:XI"}},
		{{Label: "⬅️ Kembali", Data: "back:tier"}},
	}

	markup, ok := keyboard(rows)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 2)
	require.Len(t, markup.InlineKeyboard[0], 2)
	assert.Equal(t, "Kelas X", markup.InlineKeyboard[0][0].Text)
	require.NotNil(t, markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "tier:X", *markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "back:tier", *markup.InlineKeyboard[1][0].CallbackData)
}

func TestKeyboard_Empty(t *testing.T) {
	_, ok := keyboard(nil)
	assert.False(t, ok)
}
