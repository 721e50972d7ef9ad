package tokenizer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runeCounter struct{}

func (runeCounter) Name() string { return "runes" }

func (runeCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

type failingCounter struct{}

func (failingCounter) Name() string { return "failing" }

func (failingCounter) CountString(string) (int, error) { return 0, errors.New("encoder broke") }

func TestCountBytes(testingHandle *testing.T) {
	testCases := []struct {
		name     string
		data     []byte
		expected CountResult
	}{
		{name: "text", data: []byte("héllo"), expected: CountResult{Tokens: 5, Counted: true}},
		{name: "empty", data: nil, expected: CountResult{Tokens: 0, Counted: true}},
		{name: "invalid_utf8", data: []byte{0xff, 0xfe}, expected: CountResult{Counted: false}},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subTest *testing.T) {
			result, countError := CountBytes(runeCounter{}, testCase.data)
			require.NoError(subTest, countError)
			assert.Equal(subTest, testCase.expected, result)
		})
	}
}

func TestCountBytesPropagatesCounterFailure(testingHandle *testing.T) {
	_, countError := CountBytes(failingCounter{}, []byte("text"))
	assert.EqualError(testingHandle, countError, "encoder broke")
	_, nilError := CountBytes(nil, []byte("text"))
	assert.ErrorIs(testingHandle, nilError, errNilCounter)
}

func TestCountFile(testingHandle *testing.T) {
	filePath := filepath.Join(testingHandle.TempDir(), "document.md")
	require.NoError(testingHandle, os.WriteFile(filePath, []byte("abc"), 0o644))

	result, countError := CountFile(runeCounter{}, filePath)
	require.NoError(testingHandle, countError)
	assert.Equal(testingHandle, CountResult{Tokens: 3, Counted: true}, result)

	_, missingError := CountFile(runeCounter{}, filepath.Join(testingHandle.TempDir(), "missing.md"))
	assert.ErrorIs(testingHandle, missingError, os.ErrNotExist)
}

func TestIsOpenAIModel(testingHandle *testing.T) {
	assert.True(testingHandle, isOpenAIModel("gpt-4o"))
	assert.True(testingHandle, isOpenAIModel("gpt-3.5-turbo"))
	assert.False(testingHandle, isOpenAIModel("claude-3.7-sonnet"))
	assert.False(testingHandle, isOpenAIModel("gemini-2.5-flash"))
}

func TestNilEncodingCounterFails(testingHandle *testing.T) {
	_, countError := openAICounter{name: "broken"}.CountString("text")
	assert.Error(testingHandle, countError)
}
