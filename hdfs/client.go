package hdfs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/colinmarc/hdfs/v2"
)

const (
	BaseDir      = "/harmoniq/covers"
	MaxCoverSize = 10 << 20
)

// coverExtensions maps the accepted image content types to the file
// extension used on HDFS.
var coverExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

var ErrCoverNotFound = errors.New("cover not found")

type Client struct {
	client *hdfs.Client
}

type CoverInfo struct {
	CoverID     string    `json:"cover_id"`
	Size        int64     `json:"size"`
	ModTime     time.Time `json:"mod_time"`
	Path        string    `json:"path"`
	ContentType string    `json:"content_type"`
}

func NewClient(namenodeAddr string) (*Client, error) {
	client, err := hdfs.New(namenodeAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to HDFS namenode: %w", err)
	}
	return &Client{client: client}, nil
}

// ConnectWithRetry dials the namenode up to attempts times, sleeping delay
// between failures.
func ConnectWithRetry(namenodeAddr string, attempts int, delay time.Duration) (*Client, error) {
	var lastErr error
	for i := 0; i < attempts; i++ {
		c, err := NewClient(namenodeAddr)
		if err == nil {
			return c, nil
		}
		lastErr = err
		time.Sleep(delay)
	}
	return nil, lastErr
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) EnsureBaseDir() error {
	err := c.client.MkdirAll(BaseDir, 0755)
	if err != nil && !os.IsExist(err) {
		return fmt.Errorf("failed to create base directory: %w", err)
	}
	return nil
}

// ExtensionFor returns the stored extension for contentType and whether the
// type is accepted as cover art.
func ExtensionFor(contentType string) (string, bool) {
	ext, ok := coverExtensions[contentType]
	return ext, ok
}

func coverPath(coverID, ext string) string {
	return path.Join(BaseDir, coverID+ext)
}

func (c *Client) UploadCover(coverID, contentType string, reader io.Reader, size int64) (string, error) {
	ext, ok := ExtensionFor(contentType)
	if !ok {
		return "", fmt.Errorf("unsupported cover type: %s", contentType)
	}
	if size > MaxCoverSize {
		return "", fmt.Errorf("cover exceeds %d bytes", MaxCoverSize)
	}
	p := coverPath(coverID, ext)

	writer, err := c.client.Create(p)
	if err != nil {
		return "", fmt.Errorf("failed to create file in HDFS: %w", err)
	}

	written, err := io.Copy(writer, io.LimitReader(reader, MaxCoverSize+1))
	if err != nil {
		writer.Close()
		c.client.Remove(p)
		return "", fmt.Errorf("failed to write to HDFS: %w", err)
	}
	if err := writer.Close(); err != nil {
		c.client.Remove(p)
		return "", fmt.Errorf("failed to close HDFS file: %w", err)
	}
	if written > MaxCoverSize || (size > 0 && written != size) {
		c.client.Remove(p)
		return "", fmt.Errorf("size mismatch: expected %d, got %d", size, written)
	}

	return p, nil
}

func (c *Client) locate(coverID string) (string, string, os.FileInfo, error) {
	for contentType, ext := range coverExtensions {
		p := coverPath(coverID, ext)
		info, err := c.client.Stat(p)
		if err == nil {
			return p, contentType, info, nil
		}
		if !os.IsNotExist(err) {
			return "", "", nil, fmt.Errorf("failed to stat file: %w", err)
		}
	}
	return "", "", nil, ErrCoverNotFound
}

func (c *Client) OpenCover(coverID string) (io.ReadCloser, *CoverInfo, error) {
	p, contentType, info, err := c.locate(coverID)
	if err != nil {
		return nil, nil, err
	}

	reader, err := c.client.Open(p)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	return reader, &CoverInfo{
		CoverID:     coverID,
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		Path:        p,
		ContentType: contentType,
	}, nil
}

func (c *Client) DeleteCover(coverID string) error {
	p, _, _, err := c.locate(coverID)
	if err != nil {
		return err
	}
	if err := c.client.Remove(p); err != nil {
		return fmt.Errorf("failed to delete cover: %w", err)
	}
	return nil
}
