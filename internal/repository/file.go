package repository

import (
	"strings"

	"github.com/harry-torres/gbarber-backend/internal/model"
)

// newFile собирает файл с публичным URL вида {appURL}/files/{path}
func newFile(appURL string, id int64, path string) *model.File {
	return &model.File{
		ID:   id,
		Path: path,
		URL:  strings.TrimRight(appURL, "/") + "/files/" + path,
	}
}
