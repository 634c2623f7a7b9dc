package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kasuganosora/craftmirror/codec"
)

// Source reads the latest full-table export for one remote table.
type Source interface {
	ReadTable(ctx context.Context, table string) ([]codec.Tuple, error)
}

// tableExport is the wire shape of a full-table read: [{"rows": [...]}].
type tableExport []struct {
	Rows []codec.Tuple `json:"rows"`
}

func decodeExport(data []byte) ([]codec.Tuple, error) {
	var export tableExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	var rows []codec.Tuple
	for _, chunk := range export {
		rows = append(rows, chunk.Rows...)
	}
	return rows, nil
}

// FileSource reads table exports from a local storage directory laid
// out as <dir>/Desc/<Table>.json and <dir>/State/<Table>.json.
type FileSource struct {
	Dir string
}

// ReadTable loads and parses one export file.
func (fs FileSource) ReadTable(_ context.Context, table string) ([]codec.Tuple, error) {
	path := filepath.Join(fs.Dir, tableCategory(table), table+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return decodeExport(data)
}

// tableCategory sorts tables into the Desc/State directory layout
// used by the export task.
func tableCategory(table string) string {
	if strings.HasSuffix(table, "Desc") {
		return "Desc"
	}
	return "State"
}

// RemoteSource reads tables with a synchronous SQL query against the
// remote database's HTTPS endpoint using Basic auth.
type RemoteSource struct {
	BaseURL  string // e.g. https://host
	Database string
	Username string
	Password string
	Client   *http.Client
}

// ReadTable issues SELECT * FROM <table> and parses the export shape.
func (rs RemoteSource) ReadTable(ctx context.Context, table string) ([]codec.Tuple, error) {
	client := rs.Client
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	url := fmt.Sprintf("%s/database/sql/%s", strings.TrimRight(rs.BaseURL, "/"), rs.Database)
	body := strings.NewReader("SELECT * FROM " + table)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("build query for %s: %w", table, err)
	}
	req.SetBasicAuth(rs.Username, rs.Password)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("query %s: status %d: %s", table, resp.StatusCode, msg)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", table, err)
	}
	return decodeExport(data)
}
