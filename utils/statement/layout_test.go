package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/statement-parser/dto"
)

func word(text string, x0, y0 float64) dto.WordBox {
	return dto.WordBox{X0: x0, Y0: y0, X1: x0 + 40, Y1: y0 + 12, Text: text}
}

func TestFindDateByLayoutBelowLabel(t *testing.T) {
	words := []dto.WordBox{
		word("Statement", 20, 40),
		word("Payment", 300, 100),
		word("Due", 345, 100),
		word("Date", 390, 100),
		word("15", 300, 130),
		word("Oct", 330, 130),
		word("2024", 360, 130),
	}

	iso, ok := findDateByLayout(words, []string{"payment due date", "due date"})
	require.True(t, ok)
	assert.Equal(t, "2024-10-15", iso)
}

func TestFindDateByLayoutIgnoresFarDates(t *testing.T) {
	words := []dto.WordBox{
		word("Payment", 300, 100),
		word("Due", 345, 100),
		word("Date", 390, 100),
		// well below the search region
		word("01/01/2024", 300, 600),
		// far to the right
		word("02/02/2024", 900, 120),
	}

	_, ok := findDateByLayout(words, []string{"payment due date"})
	assert.False(t, ok)
}

func TestFindDateByLayoutSecondPass(t *testing.T) {
	words := []dto.WordBox{
		word("Payment", 300, 100),
		word("Due", 345, 100),
		word("Amount", 390, 100),
		word("20/11/2024", 310, 330),
	}

	// "payment due date" cannot be matched in full, the loose pass finds the
	// "payment due" pair and searches further below it
	iso, ok := findDateByLayout(words, []string{"payment due date"})
	require.True(t, ok)
	assert.Equal(t, "2024-11-20", iso)
}

func TestFindDateByLayoutReadingOrder(t *testing.T) {
	// boxes arrive out of order; the region is read top-down, left-right
	words := []dto.WordBox{
		word("2024", 360, 130),
		word("Oct", 330, 130),
		word("Due", 345, 100),
		word("15", 300, 130),
		word("Date", 390, 100),
	}

	iso, ok := findDateByLayout(words, []string{"due date"})
	require.True(t, ok)
	assert.Equal(t, "2024-10-15", iso)
}

func TestFindDateByLayoutNoWords(t *testing.T) {
	_, ok := findDateByLayout(nil, []string{"due date"})
	assert.False(t, ok)
}

func TestLabelTokens(t *testing.T) {
	assert.Equal(t, []string{"payment", "due", "date"}, labelTokens("Payment Due Date"))
	assert.Equal(t, []string{"pay", "date"}, labelTokens("pay by date"))
}
