package util

import (
	"io"
	"net/http"
)

// GetSafeContentType 通过嗅探文件头判定真实 MIME 类型，不信任客户端声明
// 嗅探后将读取位置重置回文件开头
func GetSafeContentType(file io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	return http.DetectContentType(buf[:n]), nil
}
