package catalog

// Built-in catalog. Durations reflect the statutes as in force in 2025.
var seedEntries = []Entry{
	// ── CPC ──────────────────────────────────────────────────────────────────
	{Code: "CPC_335", Statute: "CPC", Article: "335", Title: "Contestação", Category: "RESPOSTA",
		Duration: 15, Mode: ModeBusinessDays, Class: ClassPeremptorio, PublicEntityDoubling: true, MultiLitigantDoubling: true,
		Trigger: "audiência de conciliação ou juntada do mandado de citação", Keywords: []string{"defesa", "resposta do réu"}},
	{Code: "CPC_350", Statute: "CPC", Article: "350", Title: "Réplica", Category: "MANIFESTACAO",
		Duration: 15, Mode: ModeBusinessDays, Class: ClassPeremptorio, PublicEntityDoubling: true, MultiLitigantDoubling: true,
		Trigger: "intimação para manifestação sobre a contestação", Keywords: []string{"impugnação à contestação"}},
	{Code: "CPC_218_3", Statute: "CPC", Article: "218, §3º", Title: "Prazo geral para prática de ato processual", Category: "MANIFESTACAO",
		Duration: 5, Mode: ModeBusinessDays, Class: ClassDilatorio, PublicEntityDoubling: true, MultiLitigantDoubling: true,
		Trigger: "intimação sem prazo fixado", Keywords: []string{"prazo supletivo"}},
	{Code: "CPC_1003_APELACAO", Statute: "CPC", Article: "1.003, §5º", Title: "Apelação", Category: "RECURSO",
		Duration: 15, Mode: ModeBusinessDays, Class: ClassPeremptorio, PublicEntityDoubling: true, MultiLitigantDoubling: true,
		Trigger: "intimação da sentença", Keywords: []string{"recurso", "sentença"}},
	{Code: "CPC_1010_CONTRARRAZOES", Statute: "CPC", Article: "1.010, §1º", Title: "Contrarrazões de apelação", Category: "RECURSO",
		Duration: 15, Mode: ModeBusinessDays, Class: ClassPeremptorio, PublicEntityDoubling: true, MultiLitigantDoubling: true,
		Trigger: "intimação para contrarrazões", Keywords: []string{"resposta ao recurso"}},
	{Code: "CPC_1015_AGRAVO", Statute: "CPC", Article: "1.015", Title: "Agravo de instrumento", Category: "RECURSO",
		Duration: 15, Mode: ModeBusinessDays, Class: ClassPeremptorio, PublicEntityDoubling: true, MultiLitigantDoubling: true,
		Trigger: "intimação da decisão interlocutória", Keywords: []string{"recurso", "interlocutória"}},
	{Code: "CPC_1021_AGRAVO_INTERNO", Statute: "CPC", Article: "1.021", Title: "Agravo interno", Category: "RECURSO",
		Duration: 15, Mode: ModeBusinessDays, Class: ClassPeremptorio, PublicEntityDoubling: true, MultiLitigantDoubling: true,
		Trigger: "intimação da decisão monocrática do relator", Keywords: []string{"recurso", "relator"}},
	{Code: "CPC_1023_EMBARGOS_DECLARACAO", Statute: "CPC", Article: "1.023", Title: "Embargos de declaração", Category: "RECURSO",
		Duration: 5, Mode: ModeBusinessDays, Class: ClassPeremptorio, PublicEntityDoubling: true, MultiLitigantDoubling: true,
		Trigger: "intimação da decisão embargada", Keywords: []string{"omissão", "contradição", "obscuridade"}},
	{Code: "CPC_1029_RESP", Statute: "CPC", Article: "1.029", Title: "Recurso especial", Category: "RECURSO",
		Duration: 15, Mode: ModeBusinessDays, Class: ClassPeremptorio, PublicEntityDoubling: true, MultiLitigantDoubling: true,
		Trigger: "intimação do acórdão", Keywords: []string{"stj", "recurso especial"}},
	{Code: "CPC_1029_RE", Statute: "CPC", Article: "1.029", Title: "Recurso extraordinário", Category: "RECURSO",
		Duration: 15, Mode: ModeBusinessDays, Class: ClassPeremptorio, PublicEntityDoubling: true, MultiLitigantDoubling: true,
		Trigger: "intimação do acórdão", Keywords: []string{"stf", "repercussão geral"}},
	{Code: "CPC_523", Statute: "CPC", Article: "523", Title: "Pagamento voluntário no cumprimento de sentença", Category: "EXECUCAO",
		Duration: 15, Mode: ModeBusinessDays, Class: ClassPeremptorio, MultiLitigantDoubling: true,
		Trigger: "intimação para pagamento", Keywords: []string{"cumprimento de sentença", "multa de 10%"}},
	{Code: "CPC_525", Statute: "CPC", Article: "525", Title: "Impugnação ao cumprimento de sentença", Category: "EXECUCAO",
		Duration: 15, Mode: ModeBusinessDays, Class: ClassPeremptorio, MultiLitigantDoubling: true,
		Trigger: "fim do prazo para pagamento voluntário", Keywords: []string{"cumprimento de sentença", "defesa do executado"}},
	{Code: "CPC_535", Statute: "CPC", Article: "535", Title: "Impugnação da Fazenda Pública ao cumprimento de sentença", Category: "EXECUCAO",
		Duration: 30, Mode: ModeBusinessDays, Class: ClassPeremptorio,
		Trigger: "intimação da Fazenda Pública", Keywords: []string{"fazenda pública", "execução contra a fazenda"}},
	{Code: "CPC_701", Statute: "CPC", Article: "701", Title: "Embargos à ação monitória", Category: "RESPOSTA",
		Duration: 15, Mode: ModeBusinessDays, Class: ClassPeremptorio, PublicEntityDoubling: true, MultiLitigantDoubling: true,
		Trigger: "juntada do mandado de pagamento", Keywords: []string{"monitória"}},
	{Code: "CPC_915", Statute: "CPC", Article: "915", Title: "Embargos à execução", Category: "EXECUCAO",
		Duration: 15, Mode: ModeBusinessDays, Class: ClassPeremptorio, PublicEntityDoubling: true,
		Trigger: "juntada do mandado de citação", Keywords: []string{"execução de título extrajudicial", "defesa do executado"}},
	{Code: "CPC_226_DESPACHO", Statute: "CPC", Article: "226, I", Title: "Despacho do juiz", Category: "JUIZ",
		Duration: 5, Mode: ModeBusinessDays, Class: ClassImproprio,
		Trigger: "conclusão dos autos", Keywords: []string{"magistrado"}},
	{Code: "CPC_226_DECISAO", Statute: "CPC", Article: "226, II", Title: "Decisão interlocutória do juiz", Category: "JUIZ",
		Duration: 10, Mode: ModeBusinessDays, Class: ClassImproprio,
		Trigger: "conclusão dos autos", Keywords: []string{"magistrado"}},
	{Code: "CPC_226_SENTENCA", Statute: "CPC", Article: "226, III", Title: "Sentença", Category: "JUIZ",
		Duration: 30, Mode: ModeBusinessDays, Class: ClassImproprio,
		Trigger: "conclusão dos autos", Keywords: []string{"magistrado"}},
	{Code: "CPC_228", Statute: "CPC", Article: "228, II", Title: "Execução de ato processual pelo serventuário", Category: "SERVENTIA",
		Duration: 5, Mode: ModeBusinessDays, Class: ClassImproprio,
		Trigger: "ciência da ordem judicial", Keywords: []string{"cartório", "secretaria"}},

	// ── CLT ──────────────────────────────────────────────────────────────────
	{Code: "CLT_895_RO", Statute: "CLT", Article: "895", Title: "Recurso ordinário trabalhista", Category: "RECURSO",
		Duration: 8, Mode: ModeBusinessDays, Class: ClassPeremptorio, PublicEntityDoubling: true,
		Trigger: "intimação da sentença", Keywords: []string{"trabalhista", "recurso"}},
	{Code: "CLT_896_RR", Statute: "CLT", Article: "896", Title: "Recurso de revista", Category: "RECURSO",
		Duration: 8, Mode: ModeBusinessDays, Class: ClassPeremptorio, PublicEntityDoubling: true,
		Trigger: "intimação do acórdão regional", Keywords: []string{"trabalhista", "tst"}},
	{Code: "CLT_897_AP", Statute: "CLT", Article: "897, a", Title: "Agravo de petição", Category: "RECURSO",
		Duration: 8, Mode: ModeBusinessDays, Class: ClassPeremptorio, PublicEntityDoubling: true,
		Trigger: "intimação da decisão na execução", Keywords: []string{"trabalhista", "execução"}},
	{Code: "CLT_897A_ED", Statute: "CLT", Article: "897-A", Title: "Embargos de declaração trabalhistas", Category: "RECURSO",
		Duration: 5, Mode: ModeBusinessDays, Class: ClassPeremptorio, PublicEntityDoubling: true,
		Trigger: "intimação da decisão embargada", Keywords: []string{"trabalhista", "omissão"}},
	{Code: "CLT_884", Statute: "CLT", Article: "884", Title: "Embargos à execução trabalhista", Category: "EXECUCAO",
		Duration: 5, Mode: ModeBusinessDays, Class: ClassPeremptorio,
		Trigger: "garantia da execução ou penhora", Keywords: []string{"trabalhista", "execução"}},

	// ── Lei 9.099/1995 ───────────────────────────────────────────────────────
	{Code: "L9099_42_RI", Statute: "Lei 9.099/1995", Article: "42", Title: "Recurso inominado", Category: "RECURSO",
		Duration: 10, Mode: ModeBusinessDays, Class: ClassPeremptorio,
		Trigger: "ciência da sentença", Keywords: []string{"juizado especial", "recurso"}},
	{Code: "L9099_49_ED", Statute: "Lei 9.099/1995", Article: "49", Title: "Embargos de declaração no juizado", Category: "RECURSO",
		Duration: 5, Mode: ModeBusinessDays, Class: ClassPeremptorio,
		Trigger: "ciência da decisão", Keywords: []string{"juizado especial", "omissão"}},

	// ── Lei 11.101/2005 (dias corridos, art. 189 §1º I) ─────────────────────
	{Code: "L11101_7_HABILITACAO", Statute: "Lei 11.101/2005", Article: "7º, §1º", Title: "Habilitação ou divergência de crédito", Category: "FALENCIA",
		Duration: 15, Mode: ModeCalendarDays, Class: ClassPeremptorio,
		Trigger: "publicação do edital de credores", Keywords: []string{"recuperação judicial", "falência", "crédito"}},
	{Code: "L11101_8_IMPUGNACAO", Statute: "Lei 11.101/2005", Article: "8º", Title: "Impugnação à relação de credores", Category: "FALENCIA",
		Duration: 10, Mode: ModeCalendarDays, Class: ClassPeremptorio, SuspendsOnRecess: true,
		Trigger: "publicação da relação do administrador judicial", Keywords: []string{"recuperação judicial", "falência", "crédito"}},
	{Code: "L11101_53_PLANO", Statute: "Lei 11.101/2005", Article: "53", Title: "Apresentação do plano de recuperação judicial", Category: "FALENCIA",
		Duration: 60, Mode: ModeCalendarDays, Class: ClassPeremptorio,
		Trigger: "publicação da decisão que deferir o processamento", Keywords: []string{"recuperação judicial", "plano"}},
	{Code: "L11101_55_OBJECAO", Statute: "Lei 11.101/2005", Article: "55", Title: "Objeção ao plano de recuperação judicial", Category: "FALENCIA",
		Duration: 30, Mode: ModeCalendarDays, Class: ClassPeremptorio, SuspendsOnRecess: true,
		Trigger: "publicação da relação de credores ou do aviso do plano", Keywords: []string{"recuperação judicial", "plano", "credor"}},

	// ── CPP (dias corridos, art. 798) ────────────────────────────────────────
	{Code: "CPP_396_RESPOSTA", Statute: "CPP", Article: "396", Title: "Resposta à acusação", Category: "RESPOSTA",
		Duration: 10, Mode: ModeCalendarDays, Class: ClassPeremptorio, PublicEntityDoubling: true,
		Trigger: "citação do acusado", Keywords: []string{"penal", "defesa"}},
	{Code: "CPP_586_RESE", Statute: "CPP", Article: "586", Title: "Recurso em sentido estrito", Category: "RECURSO",
		Duration: 5, Mode: ModeCalendarDays, Class: ClassPeremptorio, PublicEntityDoubling: true,
		Trigger: "intimação da decisão", Keywords: []string{"penal", "recurso"}},
	{Code: "CPP_593_APELACAO", Statute: "CPP", Article: "593", Title: "Apelação criminal", Category: "RECURSO",
		Duration: 5, Mode: ModeCalendarDays, Class: ClassPeremptorio, PublicEntityDoubling: true,
		Trigger: "intimação da sentença", Keywords: []string{"penal", "recurso"}},
	{Code: "CPP_600_RAZOES", Statute: "CPP", Article: "600", Title: "Razões de apelação criminal", Category: "RECURSO",
		Duration: 8, Mode: ModeCalendarDays, Class: ClassPeremptorio, PublicEntityDoubling: true,
		Trigger: "intimação para arrazoar", Keywords: []string{"penal", "razões"}},
	{Code: "CPP_619_ED", Statute: "CPP", Article: "619", Title: "Embargos de declaração criminais", Category: "RECURSO",
		Duration: 2, Mode: ModeCalendarDays, Class: ClassPeremptorio, PublicEntityDoubling: true,
		Trigger: "publicação do acórdão", Keywords: []string{"penal", "omissão"}},
}

// SeedEntries returns a copy of the built-in catalog.
func SeedEntries() []Entry {
	out := make([]Entry, len(seedEntries))
	for i, e := range seedEntries {
		e.Keywords = append([]string(nil), e.Keywords...)
		out[i] = e
	}
	return out
}

//Personal.AI order the ending
