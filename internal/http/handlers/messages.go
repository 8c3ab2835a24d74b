package handlers

// Fixed remediation texts shown when the provider rejects the configured
// key. The English text mirrors the provider guidance: video generation is
// only available to API keys from paid projects.
var keyRemediationMessages = map[string]string{
	"en": "Your API key was rejected. Select an API key from a paid GCP project and try again.",
	"id": "Kunci API Anda ditolak. Pilih kunci API dari proyek GCP berbayar lalu coba lagi.",
}

var keyMissingMessages = map[string]string{
	"en": "No API key is configured. Select an API key before generating.",
	"id": "Belum ada kunci API. Pilih kunci API sebelum membuat video.",
}

func keyRemediation(locale string) string {
	if msg, ok := keyRemediationMessages[locale]; ok {
		return msg
	}
	return keyRemediationMessages["en"]
}

func keyMissing(locale string) string {
	if msg, ok := keyMissingMessages[locale]; ok {
		return msg
	}
	return keyMissingMessages["en"]
}
