package extraction

import (
	"github.com/otiai10/gosseract/v2"
)

// Recognizer extracts readable text from a single image file.
type Recognizer interface {
	Recognize(imagePath string) (string, error)
}

// tesseractRecognizer runs tesseract per frame. A gosseract client is not
// safe for concurrent use, so each call gets its own short-lived client;
// frames are small enough that client setup is not the dominant cost.
type tesseractRecognizer struct {
	language string
}

func newTesseractRecognizer(language string) *tesseractRecognizer {
	return &tesseractRecognizer{language: language}
}

func (r *tesseractRecognizer) Recognize(imagePath string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(r.language); err != nil {
		return "", err
	}
	if err := client.SetImage(imagePath); err != nil {
		return "", err
	}
	return client.Text()
}
