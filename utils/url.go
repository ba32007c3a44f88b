package utils

import "strings"

// UploadRoutePrefix 上传文件的公开访问路径
const UploadRoutePrefix = "/posts/postImages/"

// BuildUploadURL 拼接上传文件的公开 URL
func BuildUploadURL(baseURL, filename string) string {
	return strings.TrimRight(baseURL, "/") + UploadRoutePrefix + filename
}
