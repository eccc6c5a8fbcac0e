package notify

import (
	"os"
	"strings"

	"github.com/pkg/errors"
)

// EndpointSource отдаёт актуальный список вебхуков. Список перечитывается
// на каждый вызов: файл правят руками, пока процесс работает.
type EndpointSource interface {
	Endpoints() ([]string, error)
}

// FileEndpoints — webhooks.txt, по одному URL на строку.
type FileEndpoints struct {
	path string
}

func NewFileEndpoints(path string) *FileEndpoints {
	return &FileEndpoints{path: path}
}

func (f *FileEndpoints) Endpoints() ([]string, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read %s", f.path)
	}

	var urls []string
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			urls = append(urls, line)
		}
	}
	return urls, nil
}
