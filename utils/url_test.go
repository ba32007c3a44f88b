package utils

import "testing"

func TestBuildUploadURL(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		filename string
		expected string
	}{
		{
			name:     "base url without trailing slash",
			baseURL:  "http://localhost:4202",
			filename: "0123456789abcdef0123456789abcdef.png",
			expected: "http://localhost:4202/posts/postImages/0123456789abcdef0123456789abcdef.png",
		},
		{
			name:     "base url with trailing slash",
			baseURL:  "https://blog.example.com/",
			filename: "a.jpg",
			expected: "https://blog.example.com/posts/postImages/a.jpg",
		},
		{
			name:     "empty base url",
			baseURL:  "",
			filename: "a.jpg",
			expected: "/posts/postImages/a.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildUploadURL(tt.baseURL, tt.filename); got != tt.expected {
				t.Errorf("BuildUploadURL(%q, %q) = %q, want %q", tt.baseURL, tt.filename, got, tt.expected)
			}
		})
	}
}
