package common

import (
	"net/http"

	"golang.org/x/text/language"
)

var (
	supportedLanguages = []language.Tag{language.English, language.Turkish}
	languageMatcher    = language.NewMatcher(supportedLanguages)
)

var catalogue = map[string]map[string]string{
	"team_not_found":         {"en": "team not found", "tr": "Takım bulunamadı"},
	"already_member":         {"en": "already a member of this team", "tr": "Zaten bu takımın üyesisiniz"},
	"already_pending":        {"en": "join request already sent", "tr": "Zaten katılma isteği gönderilmiş"},
	"not_admin":              {"en": "only the team admin can do this", "tr": "Bu işlem için yetkiniz yok"},
	"not_member":             {"en": "not a member of this team", "tr": "Bu takımın üyesi değilsiniz"},
	"not_requester":          {"en": "join requests can only be sent for yourself", "tr": "Yalnızca kendiniz için katılma isteği gönderebilirsiniz"},
	"join_request_not_found": {"en": "join request not found", "tr": "Kullanıcının katılma isteği bulunamadı"},
	"membership_not_found":   {"en": "membership not found", "tr": "Üyelik bulunamadı"},
	"missing_arguments":      {"en": "missing arguments", "tr": "Eksik parametreler"},
	"name_required":          {"en": "name is required", "tr": "İsim gereklidir"},
	"team_id_required":       {"en": "team id is required", "tr": "Takım ID'si gereklidir"},
	"user_id_required":       {"en": "user id is required", "tr": "Kullanıcı ID'si gereklidir"},
	"hatim_id_required":      {"en": "hatim id is required", "tr": "Hatim ID'si gereklidir"},
	"hatim_not_found":        {"en": "hatim not found", "tr": "Hatim bulunamadı"},
	"assignment_not_found":   {"en": "page assignment not found", "tr": "Sayfa ataması bulunamadı"},
	"hatim_completed":        {"en": "hatim is already completed", "tr": "Hatim zaten tamamlandı"},
	"invalid_page":           {"en": "page is not part of this assignment", "tr": "Sayfa bu atamaya ait değil"},
	"not_assignee":           {"en": "assignment belongs to another member", "tr": "Bu atama başka bir üyeye ait"},
	"no_members":             {"en": "team has no members to assign pages to", "tr": "Takımda sayfa atanacak üye yok"},
	"duplicate_member":       {"en": "member listed more than once", "tr": "Üye birden fazla kez listelenmiş"},
	"invalid_total_pages":    {"en": "total pages must be at least 1", "tr": "Toplam sayfa sayısı en az 1 olmalıdır"},
	"profile_not_found":      {"en": "profile not found", "tr": "Profil bulunamadı"},
	"invalid_json":           {"en": "invalid json", "tr": "Geçersiz JSON"},
	"invalid_request":        {"en": "invalid request", "tr": "Geçersiz istek"},
	"invalid_token":          {"en": "invalid token", "tr": "Geçersiz oturum"},
	"too_many_requests":      {"en": "too many requests", "tr": "Çok fazla istek"},
	"internal_error":         {"en": "internal error", "tr": "Beklenmeyen bir hata oluştu"},

	"join_requested":    {"en": "join request sent", "tr": "Katılma isteği gönderildi"},
	"join_approved":     {"en": "user added to the team", "tr": "Kullanıcı takıma eklendi"},
	"join_rejected":     {"en": "join request rejected", "tr": "Katılma isteği reddedildi"},
	"hatim_done":        {"en": "hatim completed", "tr": "Hatim tamamlandı"},
	"hatim_in_progress": {"en": "hatim in progress", "tr": "Hatim devam ediyor"},
}

// Language picks the best supported language from Accept-Language,
// defaulting to English.
func Language(r *http.Request) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return language.English
	}
	_, index, confidence := languageMatcher.Match(tags...)
	if confidence == language.No {
		return language.English
	}
	return supportedLanguages[index]
}

// Localize returns the message for code in the request's language. Unknown
// codes fall back to the given text.
func Localize(r *http.Request, code, fallback string) string {
	messages, ok := catalogue[code]
	if !ok {
		return fallback
	}
	base, _ := Language(r).Base()
	if message, ok := messages[base.String()]; ok {
		return message
	}
	if message, ok := messages["en"]; ok {
		return message
	}
	return fallback
}
