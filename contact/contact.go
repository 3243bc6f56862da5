// Package contact handles the landing page's contact form.
package contact

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"barklounge/models"
	"barklounge/visitor"
)

const (
	flashKey = "contact_form"
	// Anchor of the form on the landing page.
	RedirectTo = "/#iletisim"

	tooManyRequests = "Çok fazla mesaj gönderdiniz. Lütfen biraz sonra tekrar deneyin."
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^[+]?[0-9\s\-()]{10,}$`)
)

// Validate returns a message per invalid field, keyed by form field name.
// An empty map means msg can be sent.
func Validate(msg models.ContactMessage) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(msg.Name) == "" {
		errs["name"] = "Adınız gereklidir"
	}
	switch email := strings.TrimSpace(msg.Email); {
	case email == "":
		errs["email"] = "E-posta adresi gereklidir"
	case !emailRe.MatchString(email):
		errs["email"] = "Geçerli bir e-posta adresi giriniz"
	}
	if msg.Phone != "" && !phoneRe.MatchString(msg.Phone) {
		errs["phone"] = "Geçerli bir telefon numarası giriniz"
	}
	if msg.PetType != "" && msg.PetType != models.PetDog && msg.PetType != models.PetCat {
		errs["pet_type"] = "Geçerli bir evcil hayvan türü seçiniz"
	}
	if strings.TrimSpace(msg.Subject) == "" {
		errs["subject"] = "Konu gereklidir"
	}
	if strings.TrimSpace(msg.Message) == "" {
		errs["message"] = "Mesaj gereklidir"
	}
	return errs
}

func normalize(msg models.ContactMessage) models.ContactMessage {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Phone = strings.TrimSpace(msg.Phone)
	msg.Subject = strings.TrimSpace(msg.Subject)
	msg.Message = strings.TrimSpace(msg.Message)
	return msg
}

// Form is what the landing page needs to redraw the form after a redirect.
type Form struct {
	Values models.ContactMessage `json:"values"`
	Errors map[string]string     `json:"errors"`
}

// TakeForm pops the form left by the last submission, if any. Errors is
// never nil.
func TakeForm(c *gin.Context) Form {
	form := Form{Errors: map[string]string{}}
	session := sessions.Default(c)
	flashes := session.Flashes(flashKey)
	if len(flashes) == 0 {
		return form
	}
	_ = session.Save()

	raw, ok := flashes[len(flashes)-1].(string)
	if !ok {
		return form
	}
	if err := json.Unmarshal([]byte(raw), &form); err != nil {
		return Form{Errors: map[string]string{}}
	}
	if form.Errors == nil {
		form.Errors = map[string]string{}
	}
	return form
}

func putForm(c *gin.Context, form Form) error {
	raw, err := json.Marshal(form)
	if err != nil {
		return err
	}
	session := sessions.Default(c)
	session.AddFlash(string(raw), flashKey)
	return session.Save()
}

// limiter hands out one token bucket per client IP.
type limiter struct {
	mu      sync.Mutex
	perMin  int
	buckets map[string]*bucket
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

func newLimiter(perMin int) *limiter {
	return &limiter{perMin: perMin, buckets: make(map[string]*bucket)}
}

func (l *limiter) allow(ip string) bool {
	if l.perMin <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[ip]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMin)), l.perMin)}
		l.buckets[ip] = b
	}
	b.seen = time.Now()
	return b.lim.Allow()
}

// prune drops buckets idle for longer than idle.
func (l *limiter) prune(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for ip, b := range l.buckets {
		if time.Since(b.seen) > idle {
			delete(l.buckets, ip)
			n++
		}
	}
	return n
}

type ContactModule struct {
	limiter *limiter
	log     *zap.Logger
}

// NewContactModule accepts up to perMin submissions per client IP each
// minute. perMin <= 0 disables the limit.
func NewContactModule(perMin int, log *zap.Logger) *ContactModule {
	if log == nil {
		log = zap.NewNop()
	}
	return &ContactModule{limiter: newLimiter(perMin), log: log.Named("contact")}
}

func (m *ContactModule) RegisterRoutes(router *gin.Engine) {
	router.POST("/contact", m.submit)
}

// PruneLimiter forgets clients that have not posted for idle.
func (m *ContactModule) PruneLimiter(idle time.Duration) int {
	return m.limiter.prune(idle)
}

func (m *ContactModule) submit(c *gin.Context) {
	st := visitor.Store(c)

	var msg models.ContactMessage
	if err := c.ShouldBind(&msg); err != nil {
		m.log.Debug("unreadable contact form", zap.Error(err))
	}
	msg = normalize(msg)

	if !m.limiter.allow(c.ClientIP()) {
		m.log.Warn("contact form rate limited", zap.String("ip", c.ClientIP()))
		st.Contact.Rejected(tooManyRequests)
		m.redirect(c, Form{Values: msg})
		return
	}

	if errs := Validate(msg); len(errs) > 0 {
		m.redirect(c, Form{Values: msg, Errors: errs})
		return
	}

	if resp := st.SendContactMessage(c.Request.Context(), msg); resp == nil {
		m.log.Warn("contact message not sent", zap.String("error", st.Contact.Snapshot().Error))
		m.redirect(c, Form{Values: msg})
		return
	}
	m.log.Info("contact message sent", zap.String("visitor", visitor.ID(c)))
	c.Redirect(http.StatusSeeOther, RedirectTo)
}

func (m *ContactModule) redirect(c *gin.Context, form Form) {
	if err := putForm(c, form); err != nil {
		m.log.Error("saving contact form to session", zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, RedirectTo)
}
