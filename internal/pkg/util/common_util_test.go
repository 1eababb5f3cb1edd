package util

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairKey(t *testing.T) {
	// 与参数顺序无关
	assert.Equal(t, "1_10", PairKey(1, 10))
	assert.Equal(t, "1_10", PairKey(10, 1))
	assert.Equal(t, "7_7", PairKey(7, 7))
}

func TestGenerateCode(t *testing.T) {
	code := GenerateCode(6)
	require.Len(t, code, 6)
	for _, c := range code {
		assert.True(t, c >= '0' && c <= '9')
	}
}

func TestGetSafeContentType(t *testing.T) {
	pdf := bytes.NewReader([]byte("%PDF-1.4 some content here padding padding"))
	contentType, err := GetSafeContentType(pdf)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)

	// 嗅探后读取位置回到开头
	pos, err := pdf.Seek(0, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pos)
}
