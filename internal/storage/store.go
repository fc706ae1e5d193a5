package storage

import (
	"context"
	"fmt"
	"path"
)

// ObjectStore is the blob namespace holding payment slips, signature images
// and generated receipt PDFs. Keys are deterministic so retried uploads
// overwrite instead of accumulating objects.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// ReceiptKey is the deterministic object key for a donation's receipt PDF.
func ReceiptKey(donationID string) string {
	return path.Join("receipts", fmt.Sprintf("receipt-%s.pdf", donationID))
}

// SignatureKey builds the object key for an uploaded signature image.
func SignatureKey(id, ext string) string {
	return path.Join("signatures", id+"."+ext)
}

// SlipKey builds the object key for an uploaded proof-of-payment image.
func SlipKey(id, ext string) string {
	return path.Join("slips", id+"."+ext)
}
