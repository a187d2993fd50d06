// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"image"

	qrcode "github.com/skip2/go-qrcode"
)

// qrImage encodes url as a QR code image of the given pixel size. Low
// error correction keeps the code coarse enough to scan from a printout.
func qrImage(url string, size int) (image.Image, error) {
	q, err := qrcode.New(url, qrcode.Low)
	if err != nil {
		return nil, err
	}
	return q.Image(size), nil
}
