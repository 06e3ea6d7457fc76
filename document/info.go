package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/wudi/pdfwriter/cos"
)

var (
	nameAuthor       = cos.MustName("Author")
	nameSubject      = cos.MustName("Subject")
	nameKeywords     = cos.MustName("Keywords")
	nameCreator      = cos.MustName("Creator")
	nameProducer     = cos.MustName("Producer")
	nameCreationDate = cos.MustName("CreationDate")
	nameModDate      = cos.MustName("ModDate")
)

func infoDictionary(info Info) cos.Dictionary {
	d := cos.Dict()
	set := func(key cos.Name, text string) {
		if text != "" {
			d = d.With(key, cos.NewText(text))
		}
	}
	set(cos.NameTitle, info.Title)
	set(nameAuthor, info.Author)
	set(nameSubject, info.Subject)
	set(nameKeywords, strings.Join(info.Keywords, ", "))
	set(nameCreator, info.Creator)
	set(nameProducer, info.Producer)
	if !info.CreationDate.IsZero() {
		set(nameCreationDate, FormatDate(info.CreationDate))
	}
	if !info.ModDate.IsZero() {
		set(nameModDate, FormatDate(info.ModDate))
	}
	return d
}

// FormatDate renders t as a date string, D:YYYYMMDDHHmmSS followed by the
// zone offset as +HH'mm' or -HH'mm'.
func FormatDate(t time.Time) string {
	_, offset := t.Zone()
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	return fmt.Sprintf("D:%s%c%02d'%02d'", t.Format("20060102150405"), sign, offset/3600, offset%3600/60)
}
