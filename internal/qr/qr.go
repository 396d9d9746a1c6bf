// Package qrは受け取りQRコードの生成と、スキャナ入力の読み取りを担当する。
package qr

import (
	"context"
	"errors"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

var ErrEmptyPayload = errors.New("empty payload")

// EncodeはペイロードをQRコードのPNGに変換する。sizeはピクセル数（一辺）。
func Encode(payload string, size int) ([]byte, error) {
	if strings.TrimSpace(payload) == "" {
		return nil, ErrEmptyPayload
	}
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(payload, qrcode.Medium, size)
}

// Sourceはスキャナ由来のペイロード列。
// 実機ではカメラのデコード結果、テストでは固定の文字列列になる。
type Source interface {
	Candidates(ctx context.Context) (<-chan string, error)
}

var ErrNoCandidate = errors.New("no candidate")

// FirstはSourceから最初の候補を1件取り出す。
// 同じ画を連続で読んでしまうスキャナの性質上、後続は捨ててよい。
func First(ctx context.Context, src Source) (string, error) {
	ch, err := src.Candidates(ctx)
	if err != nil {
		return "", err
	}

	select {
	case payload, ok := <-ch:
		if !ok {
			return "", ErrNoCandidate
		}
		return payload, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
