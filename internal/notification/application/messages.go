package application

import (
	"fmt"
	"strings"
)

// statusLabels 各语言的状态展示文案，缺失时回退英文
var statusLabels = map[string]map[string]string{
	"en": {
		"DRAFT":               "Draft",
		"SUBMITTED":           "Submitted",
		"UNDER_REVIEW":        "Under review",
		"INTERVIEW_SCHEDULED": "Interview scheduled",
		"INTERVIEWED":         "Interviewed",
		"OFFER_EXTENDED":      "Offer extended",
		"HIRED":               "Hired",
		"REJECTED":            "Rejected",
		"WITHDRAWN":           "Withdrawn",
	},
	"de": {
		"DRAFT":               "Entwurf",
		"SUBMITTED":           "Eingereicht",
		"UNDER_REVIEW":        "In Prüfung",
		"INTERVIEW_SCHEDULED": "Gespräch geplant",
		"INTERVIEWED":         "Gespräch geführt",
		"OFFER_EXTENDED":      "Angebot unterbreitet",
		"HIRED":               "Eingestellt",
		"REJECTED":            "Abgelehnt",
		"WITHDRAWN":           "Zurückgezogen",
	},
	"fr": {
		"DRAFT":               "Brouillon",
		"SUBMITTED":           "Soumise",
		"UNDER_REVIEW":        "En cours d'examen",
		"INTERVIEW_SCHEDULED": "Entretien planifié",
		"INTERVIEWED":         "Entretien passé",
		"OFFER_EXTENDED":      "Offre proposée",
		"HIRED":               "Embauché",
		"REJECTED":            "Refusée",
		"WITHDRAWN":           "Retirée",
	},
}

// messageTemplates 各语言的邮件模板
var messageTemplates = map[string]struct {
	subject   string
	greeting  string
	body      string
	notesLine string
	closing   string
}{
	"en": {
		subject:   "Update on your application %s",
		greeting:  "Dear %s,",
		body:      "the status of your application %s has changed to: %s.",
		notesLine: "Note from our team: %s",
		closing:   "Best regards,\nThe Recruiting Team",
	},
	"de": {
		subject:   "Neuigkeiten zu Ihrer Bewerbung %s",
		greeting:  "Guten Tag %s,",
		body:      "der Status Ihrer Bewerbung %s hat sich geändert: %s.",
		notesLine: "Anmerkung unseres Teams: %s",
		closing:   "Mit freundlichen Grüßen\nIhr Recruiting-Team",
	},
	"fr": {
		subject:   "Mise à jour de votre candidature %s",
		greeting:  "Bonjour %s,",
		body:      "le statut de votre candidature %s a changé : %s.",
		notesLine: "Remarque de notre équipe : %s",
		closing:   "Cordialement,\nL'équipe de recrutement",
	},
}

// normalizeLocale 归一化语言代码（如 de-AT -> de），不支持时回退 en
func normalizeLocale(locale string) string {
	locale = strings.ToLower(locale)
	if idx := strings.IndexAny(locale, "-_"); idx > 0 {
		locale = locale[:idx]
	}
	if _, ok := messageTemplates[locale]; !ok {
		return "en"
	}
	return locale
}

// statusLabel 状态的本地化展示文案
func statusLabel(locale, status string) string {
	if label, ok := statusLabels[locale][status]; ok {
		return label
	}
	if label, ok := statusLabels["en"][status]; ok {
		return label
	}
	return status
}

// composeMessage 渲染本地化的主题与正文
func composeMessage(locale, fullName, applicationNo, status, notes string) (subject, body string) {
	locale = normalizeLocale(locale)
	tpl := messageTemplates[locale]

	subject = fmt.Sprintf(tpl.subject, applicationNo)

	var b strings.Builder
	b.WriteString(fmt.Sprintf(tpl.greeting, fullName))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf(tpl.body, applicationNo, statusLabel(locale, status)))
	if strings.TrimSpace(notes) != "" {
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf(tpl.notesLine, notes))
	}
	b.WriteString("\n\n")
	b.WriteString(tpl.closing)

	return subject, b.String()
}
