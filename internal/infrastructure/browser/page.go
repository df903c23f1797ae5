package browser

import (
	"os"

	"github.com/go-rod/rod"
)

// rodPage adapts a rod page to the scraper.Page interface. Lookups use
// Has rather than Element so a missing selector fails fast instead of
// waiting out the page deadline.
type rodPage struct {
	page *rod.Page
}

func (p *rodPage) Text(selector string) (string, error) {
	ok, el, err := p.page.Has(selector)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &selectorNotFoundError{selector: selector}
	}
	return el.Text()
}

func (p *rodPage) Texts(selector string) ([]string, error) {
	els, err := p.page.Elements(selector)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(els))
	for _, el := range els {
		text, err := el.Text()
		if err != nil {
			continue
		}
		texts = append(texts, text)
	}
	return texts, nil
}

func (p *rodPage) HTML() (string, error) {
	return p.page.HTML()
}

func (p *rodPage) Screenshot(path string) error {
	data, err := p.page.Screenshot(true, nil)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (p *rodPage) Close() error {
	return p.page.Close()
}

type selectorNotFoundError struct {
	selector string
}

func (e *selectorNotFoundError) Error() string {
	return "no element matches selector " + e.selector
}
