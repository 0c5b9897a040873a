package store

import (
	"fyne.io/fyne/v2"
)

// Preferences stores values in the fyne app preferences, which fyne
// persists per application ID.
type Preferences struct {
	prefs fyne.Preferences
}

func NewPreferences(p fyne.Preferences) *Preferences {
	return &Preferences{prefs: p}
}

func (p *Preferences) Load(key string) (string, error) {
	v := p.prefs.String(key)
	if v == "" {
		return "", ErrNotFound
	}
	return v, nil
}

func (p *Preferences) Save(key, value string) error {
	p.prefs.SetString(key, value)
	return nil
}
