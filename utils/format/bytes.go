package format

import "fmt"

const byteUnit = 1024

var units = []string{"B", "KB", "MB", "GB", "TB"}

// HumanReadableSize 将字节数转换为人类可读的格式，用于上传限制提示与清理报告
func HumanReadableSize(bytes int64) string {
	if bytes < byteUnit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(byteUnit), 1
	for n := bytes / byteUnit; n >= byteUnit && exp < len(units)-1; n /= byteUnit {
		div *= byteUnit
		exp++
	}

	return fmt.Sprintf("%.2f %s", float64(bytes)/float64(div), units[exp])
}
