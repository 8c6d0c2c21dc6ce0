package i18n

import (
	"fmt"
	"net/http"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// FallbackLanguage is used for codes the catalog has no entries for.
const FallbackLanguage = "en"

// translations maps message key to code to text. Codes without an entry
// receive the English text.
var translations = map[string]map[string]string{
	"sign-into": {
		"en": "Sign into",
		"es": "Inicia sesión en",
		"pt": "Entre no",
	},
	"login-intro": {
		"en": "Trade, earn rewards and track your portfolio from one place.",
		"es": "Opera, gana recompensas y sigue tu cartera desde un solo lugar.",
		"pt": "Negocie, ganhe recompensas e acompanhe seu portfólio em um só lugar.",
	},
	"enter-e-mail-address": {
		"en": "Enter e-mail address",
		"es": "Introduce tu correo electrónico",
		"pt": "Digite seu e-mail",
	},
	"enter-password": {
		"en": "Enter password",
		"es": "Introduce tu contraseña",
		"pt": "Digite sua senha",
	},
	"remember-me": {
		"en": "Remember me",
		"es": "Recordarme",
		"pt": "Lembrar de mim",
	},
	"forgot-password": {
		"en": "Forgot password?",
		"es": "¿Olvidaste tu contraseña?",
		"pt": "Esqueceu a senha?",
	},
	"sign-in": {
		"en": "Sign in",
		"es": "Iniciar sesión",
		"pt": "Entrar",
	},
	"sign-out": {
		"en": "Sign out",
		"es": "Cerrar sesión",
		"pt": "Sair",
	},
	"dont-have-an-account-yet": {
		"en": "Don't have an account yet?",
		"es": "¿Aún no tienes cuenta?",
		"pt": "Ainda não tem uma conta?",
	},
	"create-account": {
		"en": "Create account",
		"es": "Crear cuenta",
		"pt": "Criar conta",
	},
	"language-selection": {
		"en": "Language Selection",
		"es": "Selección de idioma",
		"pt": "Seleção de idioma",
	},
	"signed-in-as": {
		"en": "Signed in as",
		"es": "Sesión iniciada como",
		"pt": "Conectado como",
	},
	"coming-soon": {
		"en": "This section is coming soon.",
		"es": "Esta sección estará disponible pronto.",
		"pt": "Esta seção estará disponível em breve.",
	},
	"nav.home":    {"en": "Home", "es": "Inicio", "pt": "Início"},
	"nav.trade":   {"en": "Trade", "es": "Operar", "pt": "Negociar"},
	"nav.rewards": {"en": "Rewards", "es": "Recompensas", "pt": "Recompensas"},
	"nav.perfil":  {"en": "Perfil", "es": "Perfil", "pt": "Perfil"},
	"nav.register": {
		"en": "Create account",
		"es": "Crear cuenta",
		"pt": "Criar conta",
	},
	"nav.forget-password": {
		"en": "Reset password",
		"es": "Restablecer contraseña",
		"pt": "Redefinir senha",
	},
}

// Catalog renders translated strings for the languages it was built with.
type Catalog struct {
	builder *catalog.Builder
	tags    map[string]language.Tag
}

// NewCatalog builds a catalog for langs. English is always included.
func NewCatalog(langs []string) (*Catalog, error) {
	c := &Catalog{
		builder: catalog.NewBuilder(catalog.Fallback(language.English)),
		tags:    map[string]language.Tag{},
	}
	codes := append([]string{FallbackLanguage}, langs...)
	for _, code := range codes {
		code = normalize(code)
		if _, ok := c.tags[code]; ok {
			continue
		}
		tag, err := language.Parse(code)
		if err != nil {
			return nil, fmt.Errorf("parse language %q: %w", code, err)
		}
		c.tags[code] = tag
		for key, byLang := range translations {
			text, ok := byLang[code]
			if !ok {
				text = byLang[FallbackLanguage]
			}
			if err := c.builder.SetString(tag, key, text); err != nil {
				return nil, fmt.Errorf("set %s/%s: %w", code, key, err)
			}
		}
	}
	return c, nil
}

// T returns the translation of key in lang. Unknown languages render English;
// unknown keys render as the key itself.
func (c *Catalog) T(lang, key string) string {
	tag, ok := c.tags[normalize(lang)]
	if !ok {
		tag = language.English
	}
	return message.NewPrinter(tag, message.Catalog(c.builder)).Sprintf(key)
}

// Match picks the best code in supported for an Accept-Language header value.
// It returns "" when nothing matches.
func Match(supported []string, acceptLanguage string) string {
	if acceptLanguage == "" || len(supported) == 0 {
		return ""
	}
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return ""
	}
	tags := make([]language.Tag, 0, len(supported))
	codes := make([]string, 0, len(supported))
	for _, code := range supported {
		tag, err := language.Parse(code)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		codes = append(codes, code)
	}
	if len(tags) == 0 {
		return ""
	}
	_, idx, conf := language.NewMatcher(tags).Match(prefs...)
	if conf == language.No {
		return ""
	}
	return codes[idx]
}

// RequestState derives the visitor's language from the process-wide state:
// the userLanguage cookie first, then Accept-Language, then the store default.
func RequestState(r *http.Request, base State) State {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		if next := Reduce(base, ChangeLanguage{Language: c.Value}); next.Language == normalize(c.Value) {
			return next
		}
	}
	if lang := Match(base.Supported, r.Header.Get("Accept-Language")); lang != "" {
		return Reduce(base, ChangeLanguage{Language: lang})
	}
	return Reduce(base, nil)
}
