package util

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/fatih/color"
	"github.com/skip2/go-qrcode"
)

// PaymentURI builds a BIP21 URI. A zero amount and empty label are omitted.
func PaymentURI(address string, amount btcutil.Amount, label string) string {
	uri := "bitcoin:" + address
	query := url.Values{}
	if amount > 0 {
		query.Set("amount", ToDecimal(amount).String())
	}
	if label != "" {
		query.Set("label", label)
	}
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}
	return uri
}

// GenerateQRCode renders data as a terminal QR code string.
func GenerateQRCode(data string) string {
	qr, err := qrcode.New(data, qrcode.Medium)
	if err != nil {
		return ""
	}
	return qr.ToSmallString(false)
}

// SaveQRCodeToFile generates a QR code from the provided data and saves it to the specified file path as a PNG image
// size: the size of the QR code in pixels
func SaveQRCodeToFile(data string, filePath string, size int) error {
	return qrcode.WriteFile(data, qrcode.Medium, size, filePath)
}

// DisplayColoredQRCodeInConsole prints a QR code to the console with custom colors
// validColors: "black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"
func DisplayColoredQRCodeInConsole(data string, title string, foregroundColor string) {
	qrCode := GenerateQRCode(data)
	if qrCode == "" {
		fmt.Println("Failed to generate QR code")
		return
	}

	if title != "" {
		fmt.Println(title)
		fmt.Println()
	}

	colorMap := map[string]color.Attribute{
		"black":   color.FgBlack,
		"red":     color.FgRed,
		"green":   color.FgGreen,
		"yellow":  color.FgYellow,
		"blue":    color.FgBlue,
		"magenta": color.FgMagenta,
		"cyan":    color.FgCyan,
		"white":   color.FgWhite,
	}

	// Get color attribute or default to white
	fgColor, ok := colorMap[strings.ToLower(foregroundColor)]
	if !ok {
		fgColor = color.FgWhite
	}

	colorPrinter := color.New(fgColor)
	for _, line := range strings.Split(qrCode, "\n") {
		colorPrinter.Println(line)
	}
}
