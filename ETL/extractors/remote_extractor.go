package extractors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-gota/gota/dataframe"
)

// RemoteExtractor загружает CSV по HTTP
type RemoteExtractor struct {
	client *http.Client
	url    string
}

// NewRemoteExtractor создает новый экземпляр RemoteExtractor
func NewRemoteExtractor(url string, timeout time.Duration) *RemoteExtractor {
	return &RemoteExtractor{
		client: &http.Client{Timeout: timeout},
		url:    url,
	}
}

// Fetch выполняет один GET-запрос и разбирает ответ. Если sink не nil,
// тело ответа дублируется в него по мере чтения
func (e *RemoteExtractor) Fetch(ctx context.Context, sink io.Writer) (dataframe.DataFrame, []string, error) {
	if e.url == "" {
		return dataframe.DataFrame{}, nil, errors.New("URL источника не задан")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.url, nil)
	if err != nil {
		return dataframe.DataFrame{}, nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := e.client.Do(req)
	if err != nil {
		return dataframe.DataFrame{}, nil, fmt.Errorf("ошибка запроса к %s: %w", e.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return dataframe.DataFrame{}, nil, fmt.Errorf("неожиданный статус ответа: %s", resp.Status)
	}

	var body io.Reader = resp.Body
	if sink != nil {
		body = io.TeeReader(resp.Body, sink)
	}
	return ReadDataset(body)
}
