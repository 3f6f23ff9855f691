package translate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeLang(t *testing.T) {
	req := require.New(t)

	req.Equal("en", NormalizeLang("EN"))
	req.Equal("fr", NormalizeLang("fr-CA"))
	req.Equal("pt", NormalizeLang("pt_BR"))
	req.Equal("de", NormalizeLang("  de  "))
	req.Equal("", NormalizeLang(""))
}

func TestDetectLang(t *testing.T) {
	req := require.New(t)

	req.Equal("en", DetectLang("Hello, how are you doing today my good friend?"))
	req.Equal("en", DetectLang("xq"), "unreliable detection defaults to en")
}

func TestNopTranslatorIsIdentity(t *testing.T) {
	req := require.New(t)

	out, err := Nop{}.Translate(context.Background(), "Hello", "en", "fr")
	req.NoError(err)
	req.Equal("Hello", out)
}
