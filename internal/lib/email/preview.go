package email

// PreviewData feeds each template when rendering previews and tests.
var PreviewData = map[Template]map[string]string{
	TemplateNewMessage: {
		"RecipientName": "Maria",
		"SenderName":    "Dra. Ana Souza",
		"Subject":       "Resultado dos exames",
	},
	TemplatePrescription: {
		"PatientName":      "Maria",
		"ProfessionalName": "Dra. Ana Souza",
	},
}
