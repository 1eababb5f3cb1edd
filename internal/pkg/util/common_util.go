package util

import (
	"math/rand"
	"strconv"
	"time"
)

const digits = "0123456789"

// GenerateCode 生成指定长度的数字验证码
func GenerateCode(length int) string {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	code := make([]byte, length)
	for i := range code {
		code[i] = digits[r.Intn(len(digits))]
	}
	return string(code)
}

// PtrUint64 用于将 uint64 转换为 *uint64
func PtrUint64(i uint64) *uint64 {
	return &i
}

// PairKey 将两个用户 ID 规整为 "小_大" 形式的稳定键
// 双方据此得到同一个输入状态频道，与发起方无关
func PairKey(a, b uint64) string {
	if a > b {
		a, b = b, a
	}
	return strconv.FormatUint(a, 10) + "_" + strconv.FormatUint(b, 10)
}
