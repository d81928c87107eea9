package pocat

import (
	"github.com/leonelquinteros/gotext"
)

// Gotext returns the catalog as a gotext translator, for code already
// built on github.com/leonelquinteros/gotext.
func (c *Catalog) Gotext() (*gotext.Po, error) {
	data, err := c.MarshalPO()
	if err != nil {
		return nil, err
	}
	po := gotext.NewPo()
	po.Parse(data)
	return po, nil
}

// GotextLocale returns a gotext.Locale for the catalog language holding
// the catalog under domain.
func (c *Catalog) GotextLocale(domain string) (*gotext.Locale, error) {
	po, err := c.Gotext()
	if err != nil {
		return nil, err
	}
	// the base path is unused when translators are added by hand
	loc := gotext.NewLocale("", c.Language())
	loc.AddTranslator(domain, po)
	return loc, nil
}
