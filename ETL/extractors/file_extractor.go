package extractors

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/golang/snappy"
)

// SnappyExtension расширение сжатой копии набора данных
const SnappyExtension = ".sz"

// FileExtractor читает локальную копию набора данных
type FileExtractor struct{}

// NewFileExtractor создает новый экземпляр FileExtractor
func NewFileExtractor() *FileExtractor {
	return &FileExtractor{}
}

// Read читает CSV; файлы с расширением .sz распаковываются как snappy-поток
func (e *FileExtractor) Read(path string) (dataframe.DataFrame, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, nil, fmt.Errorf("ошибка открытия файла %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, SnappyExtension) {
		r = snappy.NewReader(f)
	}

	frame, header, err := ReadDataset(bufio.NewReader(r))
	if err != nil {
		return dataframe.DataFrame{}, nil, fmt.Errorf("ошибка чтения файла %s: %w", path, err)
	}
	return frame, header, nil
}
