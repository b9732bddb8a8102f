package domain

// Lookup kinds referenced by catalog fields. They must match the kinds the
// lookup service accepts.
const (
	LookupCategoria       = "categoria"
	LookupAreaActuacao    = "area_actuacao"
	LookupFactorAmbiental = "factor_ambiental"
	LookupRiscoImpacto    = "risco_impacto"
	LookupTipoReclamacao  = "tipo_reclamacao"
)

// Catalog is the built-in SIGAS form catalog. Every type is a plain CRUD
// resource; status fields are free-form enumerations with no transition
// graph.
func Catalog() []FormType {
	return []FormType{
		{
			Code: "incidente", Name: "Registo de Incidente", ProjectScoped: true,
			Fields: []FieldSpec{
				{Name: "data_ocorrencia", Kind: KindDate, Required: true},
				{Name: "descricao", Kind: KindText, Required: true},
				{Name: "local", Kind: KindText},
				{Name: "tipo_incidente", Kind: KindEnum, Required: true, Enum: []string{"AMBIENTAL", "SOCIAL", "SAUDE_SEGURANCA"}},
				{Name: "gravidade", Kind: KindEnum, Enum: []string{"BAIXA", "MEDIA", "ALTA", "CRITICA"}},
				{Name: "factor_ambiental_id", Kind: KindLookup, LookupKind: LookupFactorAmbiental},
				{Name: "accao_imediata", Kind: KindText},
			},
		},
		{
			Code: "triagem_ambiental", Name: "Triagem Ambiental", ProjectScoped: true,
			Fields: []FieldSpec{
				{Name: "actividade", Kind: KindText, Required: true},
				{Name: "categoria_id", Kind: KindLookup, Required: true, LookupKind: LookupCategoria},
				{Name: "area_actuacao_id", Kind: KindLookup, LookupKind: LookupAreaActuacao},
				{Name: "riscos_identificados", Kind: KindText},
				{Name: "classificacao", Kind: KindEnum, Enum: []string{"A", "B", "C"}},
				{Name: "requer_aia", Kind: KindBool},
			},
		},
		{
			Code: "matriz_stakeholder", Name: "Matriz de Stakeholders", ProjectScoped: false,
			Fields: []FieldSpec{
				{Name: "nome", Kind: KindText, Required: true},
				{Name: "organizacao", Kind: KindText},
				{Name: "categoria_id", Kind: KindLookup, LookupKind: LookupCategoria},
				{Name: "interesse", Kind: KindEnum, Enum: []string{"BAIXO", "MEDIO", "ALTO"}},
				{Name: "influencia", Kind: KindEnum, Enum: []string{"BAIXA", "MEDIA", "ALTA"}},
				{Name: "contacto", Kind: KindText},
			},
		},
		{
			Code: "registo_formacao", Name: "Registo de Formação", ProjectScoped: true,
			Fields: []FieldSpec{
				{Name: "tema", Kind: KindText, Required: true},
				{Name: "data_realizacao", Kind: KindDate, Required: true},
				{Name: "formador", Kind: KindText},
				{Name: "numero_participantes", Kind: KindNumber},
				{Name: "duracao_horas", Kind: KindNumber},
				{Name: "area_actuacao_id", Kind: KindLookup, LookupKind: LookupAreaActuacao},
			},
		},
		{
			Code: "relatorio_auditoria", Name: "Relatório de Auditoria", ProjectScoped: true,
			Fields: []FieldSpec{
				{Name: "titulo", Kind: KindText, Required: true},
				{Name: "data_auditoria", Kind: KindDate, Required: true},
				{Name: "auditor", Kind: KindText},
				{Name: "ambito", Kind: KindText},
				{Name: "numero_nao_conformidades", Kind: KindNumber},
				{Name: "classificacao", Kind: KindEnum, Enum: []string{"CONFORME", "PARCIALMENTE_CONFORME", "NAO_CONFORME"}},
			},
		},
		{
			Code: "reclamacao", Name: "Registo de Reclamação", ProjectScoped: true,
			Fields: []FieldSpec{
				{Name: "data_rececao", Kind: KindDate, Required: true},
				{Name: "reclamante", Kind: KindText},
				{Name: "tipo_reclamacao_id", Kind: KindLookup, Required: true, LookupKind: LookupTipoReclamacao},
				{Name: "descricao", Kind: KindText, Required: true},
				{Name: "estado", Kind: KindEnum, Enum: []string{"RECEBIDA", "EM_ANALISE", "RESOLVIDA", "ENCERRADA"}},
				{Name: "data_resolucao", Kind: KindDate},
			},
		},
		{
			Code: "plano_gestao_ambiental", Name: "Plano de Gestão Ambiental", ProjectScoped: true,
			Fields: []FieldSpec{
				{Name: "titulo", Kind: KindText, Required: true},
				{Name: "objectivo", Kind: KindText},
				{Name: "factor_ambiental_id", Kind: KindLookup, LookupKind: LookupFactorAmbiental},
				{Name: "medidas_mitigacao", Kind: KindText},
				{Name: "responsavel", Kind: KindText},
				{Name: "prazo", Kind: KindDate},
			},
		},
		{
			Code: "monitorizacao_ambiental", Name: "Monitorização Ambiental", ProjectScoped: true,
			Fields: []FieldSpec{
				{Name: "parametro", Kind: KindText, Required: true},
				{Name: "data_medicao", Kind: KindDate, Required: true},
				{Name: "valor", Kind: KindNumber, Required: true},
				{Name: "unidade", Kind: KindText},
				{Name: "local_amostragem", Kind: KindText},
				{Name: "conforme", Kind: KindBool},
			},
		},
		{
			Code: "consulta_publica", Name: "Consulta Pública", ProjectScoped: true,
			Fields: []FieldSpec{
				{Name: "data", Kind: KindDate, Required: true},
				{Name: "local", Kind: KindText, Required: true},
				{Name: "tema", Kind: KindText},
				{Name: "numero_participantes", Kind: KindNumber},
				{Name: "resumo", Kind: KindText},
			},
		},
		{
			Code: "nao_conformidade", Name: "Não Conformidade", ProjectScoped: true,
			Fields: []FieldSpec{
				{Name: "descricao", Kind: KindText, Required: true},
				{Name: "data_detecao", Kind: KindDate, Required: true},
				{Name: "origem", Kind: KindEnum, Enum: []string{"AUDITORIA", "INSPECAO", "RECLAMACAO", "MONITORIZACAO"}},
				{Name: "accao_correctiva", Kind: KindText},
				{Name: "estado", Kind: KindEnum, Enum: []string{"ABERTA", "EM_CURSO", "FECHADA"}},
				{Name: "prazo", Kind: KindDate},
			},
		},
		{
			Code: "accao_correctiva", Name: "Acção Correctiva", ProjectScoped: true,
			Fields: []FieldSpec{
				{Name: "descricao", Kind: KindText, Required: true},
				{Name: "origem_ref", Kind: KindText},
				{Name: "responsavel", Kind: KindText},
				{Name: "prazo", Kind: KindDate},
				{Name: "estado", Kind: KindEnum, Enum: []string{"PENDENTE", "EM_CURSO", "CONCLUIDA"}},
				{Name: "eficacia_verificada", Kind: KindBool},
			},
		},
		{
			Code: "aspecto_ambiental", Name: "Aspecto Ambiental", ProjectScoped: true,
			Fields: []FieldSpec{
				{Name: "actividade", Kind: KindText, Required: true},
				{Name: "aspecto", Kind: KindText, Required: true},
				{Name: "factor_ambiental_id", Kind: KindLookup, LookupKind: LookupFactorAmbiental},
				{Name: "impacto", Kind: KindText},
				{Name: "significancia", Kind: KindEnum, Enum: []string{"BAIXA", "MEDIA", "ALTA"}},
			},
		},
		{
			Code: "avaliacao_risco", Name: "Avaliação de Risco", ProjectScoped: true,
			Fields: []FieldSpec{
				{Name: "actividade", Kind: KindText, Required: true},
				{Name: "perigo", Kind: KindText, Required: true},
				{Name: "risco_impacto_id", Kind: KindLookup, LookupKind: LookupRiscoImpacto},
				{Name: "probabilidade", Kind: KindEnum, Enum: []string{"RARA", "POSSIVEL", "PROVAVEL", "QUASE_CERTA"}},
				{Name: "severidade", Kind: KindEnum, Enum: []string{"LIGEIRA", "MODERADA", "GRAVE", "CATASTROFICA"}},
				{Name: "medidas_controlo", Kind: KindText},
			},
		},
		{
			Code: "inspecao_seguranca", Name: "Inspecção de Segurança", ProjectScoped: true,
			Fields: []FieldSpec{
				{Name: "data", Kind: KindDate, Required: true},
				{Name: "local", Kind: KindText, Required: true},
				{Name: "inspector", Kind: KindText},
				{Name: "itens_verificados", Kind: KindNumber},
				{Name: "itens_nao_conformes", Kind: KindNumber},
				{Name: "observacoes", Kind: KindText},
			},
		},
		{
			Code: "acidente_trabalho", Name: "Acidente de Trabalho", ProjectScoped: true,
			Fields: []FieldSpec{
				{Name: "data_ocorrencia", Kind: KindDate, Required: true},
				{Name: "sinistrado", Kind: KindText, Required: true},
				{Name: "tipo_lesao", Kind: KindText},
				{Name: "dias_perdidos", Kind: KindNumber},
				{Name: "gravidade", Kind: KindEnum, Enum: []string{"LIGEIRA", "GRAVE", "MORTAL"}},
				{Name: "descricao", Kind: KindText},
			},
		},
		{
			Code: "gestao_residuos", Name: "Gestão de Resíduos", ProjectScoped: true,
			Fields: []FieldSpec{
				{Name: "tipo_residuo", Kind: KindText, Required: true},
				{Name: "quantidade", Kind: KindNumber, Required: true},
				{Name: "unidade", Kind: KindText},
				{Name: "destino", Kind: KindEnum, Enum: []string{"RECICLAGEM", "ATERRO", "INCINERACAO", "REUTILIZACAO"}},
				{Name: "transportador", Kind: KindText},
				{Name: "data_remocao", Kind: KindDate},
			},
		},
		{
			Code: "licenca_ambiental", Name: "Licença Ambiental", ProjectScoped: false,
			Fields: []FieldSpec{
				{Name: "numero", Kind: KindText, Required: true},
				{Name: "entidade_emissora", Kind: KindText},
				{Name: "data_emissao", Kind: KindDate, Required: true},
				{Name: "data_validade", Kind: KindDate, Required: true},
				{Name: "estado", Kind: KindEnum, Enum: []string{"VALIDA", "EXPIRADA", "EM_RENOVACAO"}},
				{Name: "ambito", Kind: KindText},
			},
		},
		{
			Code: "compromisso_social", Name: "Compromisso Social", ProjectScoped: true,
			Fields: []FieldSpec{
				{Name: "descricao", Kind: KindText, Required: true},
				{Name: "comunidade", Kind: KindText},
				{Name: "data_assumido", Kind: KindDate},
				{Name: "estado", Kind: KindEnum, Enum: []string{"PENDENTE", "EM_CURSO", "CUMPRIDO"}},
				{Name: "responsavel", Kind: KindText},
			},
		},
		{
			Code: "reassentamento", Name: "Registo de Reassentamento", ProjectScoped: true,
			Fields: []FieldSpec{
				{Name: "agregado_familiar", Kind: KindText, Required: true},
				{Name: "localizacao_origem", Kind: KindText},
				{Name: "localizacao_destino", Kind: KindText},
				{Name: "compensacao_valor", Kind: KindNumber},
				{Name: "data_transferencia", Kind: KindDate},
				{Name: "estado", Kind: KindEnum, Enum: []string{"PLANEADO", "EM_CURSO", "CONCLUIDO"}},
			},
		},
		{
			Code: "emprego_local", Name: "Emprego Local", ProjectScoped: true,
			Fields: []FieldSpec{
				{Name: "nome", Kind: KindText, Required: true},
				{Name: "funcao", Kind: KindText},
				{Name: "comunidade", Kind: KindText},
				{Name: "data_contratacao", Kind: KindDate},
				{Name: "genero", Kind: KindEnum, Enum: []string{"M", "F"}},
				{Name: "permanente", Kind: KindBool},
			},
		},
		{
			Code: "queixa_trabalhador", Name: "Queixa de Trabalhador", ProjectScoped: true,
			Fields: []FieldSpec{
				{Name: "data_rececao", Kind: KindDate, Required: true},
				{Name: "assunto", Kind: KindText, Required: true},
				{Name: "descricao", Kind: KindText},
				{Name: "anonima", Kind: KindBool},
				{Name: "estado", Kind: KindEnum, Enum: []string{"RECEBIDA", "EM_ANALISE", "RESOLVIDA"}},
				{Name: "data_resolucao", Kind: KindDate},
			},
		},
		{
			Code: "simulacro_emergencia", Name: "Simulacro de Emergência", ProjectScoped: true,
			Fields: []FieldSpec{
				{Name: "cenario", Kind: KindText, Required: true},
				{Name: "data", Kind: KindDate, Required: true},
				{Name: "participantes", Kind: KindNumber},
				{Name: "duracao_minutos", Kind: KindNumber},
				{Name: "avaliacao", Kind: KindEnum, Enum: []string{"SATISFATORIO", "MELHORIA_NECESSARIA", "INSATISFATORIO"}},
			},
		},
		{
			Code: "epi_distribuicao", Name: "Distribuição de EPI", ProjectScoped: true,
			Fields: []FieldSpec{
				{Name: "trabalhador", Kind: KindText, Required: true},
				{Name: "equipamento", Kind: KindText, Required: true},
				{Name: "quantidade", Kind: KindNumber},
				{Name: "data_entrega", Kind: KindDate, Required: true},
			},
		},
		{
			Code: "sensibilizacao_comunitaria", Name: "Sensibilização Comunitária", ProjectScoped: true,
			Fields: []FieldSpec{
				{Name: "tema", Kind: KindText, Required: true},
				{Name: "comunidade", Kind: KindText, Required: true},
				{Name: "data", Kind: KindDate, Required: true},
				{Name: "participantes", Kind: KindNumber},
				{Name: "metodo", Kind: KindText},
			},
		},
		{
			Code: "visita_campo", Name: "Visita de Campo", ProjectScoped: true,
			Fields: []FieldSpec{
				{Name: "data", Kind: KindDate, Required: true},
				{Name: "tecnico", Kind: KindText, Required: true},
				{Name: "objectivo", Kind: KindText},
				{Name: "constatacoes", Kind: KindText},
				{Name: "area_actuacao_id", Kind: KindLookup, LookupKind: LookupAreaActuacao},
			},
		},
		{
			Code: "compensacao_ambiental", Name: "Compensação Ambiental", ProjectScoped: true,
			Fields: []FieldSpec{
				{Name: "descricao", Kind: KindText, Required: true},
				{Name: "tipo", Kind: KindEnum, Enum: []string{"REFLORESTACAO", "CONSERVACAO", "OUTRO"}},
				{Name: "area_hectares", Kind: KindNumber},
				{Name: "estado", Kind: KindEnum, Enum: []string{"PLANEADA", "EM_CURSO", "CONCLUIDA"}},
				{Name: "data_inicio", Kind: KindDate},
			},
		},
		{
			Code: "relatorio_progresso", Name: "Relatório de Progresso", ProjectScoped: true,
			Fields: []FieldSpec{
				{Name: "periodo", Kind: KindText, Required: true},
				{Name: "resumo", Kind: KindText, Required: true},
				{Name: "data_submissao", Kind: KindDate},
				{Name: "aprovado", Kind: KindBool},
			},
		},
		{
			Code: "patrimonio_cultural", Name: "Achado de Património Cultural", ProjectScoped: true,
			Fields: []FieldSpec{
				{Name: "descricao_achado", Kind: KindText, Required: true},
				{Name: "localizacao", Kind: KindText, Required: true},
				{Name: "data_descoberta", Kind: KindDate, Required: true},
				{Name: "medidas_tomadas", Kind: KindText},
				{Name: "autoridade_notificada", Kind: KindBool},
			},
		},
		{
			Code: "derrame", Name: "Registo de Derrame", ProjectScoped: true,
			Fields: []FieldSpec{
				{Name: "data_ocorrencia", Kind: KindDate, Required: true},
				{Name: "substancia", Kind: KindText, Required: true},
				{Name: "volume_litros", Kind: KindNumber},
				{Name: "area_afectada", Kind: KindText},
				{Name: "accao_contencao", Kind: KindText},
				{Name: "reportado_autoridade", Kind: KindBool},
			},
		},
		{
			Code: "uso_agua", Name: "Uso de Água", ProjectScoped: true,
			Fields: []FieldSpec{
				{Name: "fonte", Kind: KindText, Required: true},
				{Name: "volume_m3", Kind: KindNumber, Required: true},
				{Name: "periodo", Kind: KindText},
				{Name: "licenca_ref", Kind: KindText},
				{Name: "conforme", Kind: KindBool},
			},
		},
		{
			Code: "uso_energia", Name: "Uso de Energia", ProjectScoped: true,
			Fields: []FieldSpec{
				{Name: "fonte", Kind: KindEnum, Required: true, Enum: []string{"REDE", "GERADOR", "SOLAR", "OUTRA"}},
				{Name: "consumo_kwh", Kind: KindNumber, Required: true},
				{Name: "periodo", Kind: KindText},
			},
		},
		{
			Code: "emissao_atmosferica", Name: "Emissão Atmosférica", ProjectScoped: true,
			Fields: []FieldSpec{
				{Name: "fonte_emissao", Kind: KindText, Required: true},
				{Name: "poluente", Kind: KindText, Required: true},
				{Name: "valor_medido", Kind: KindNumber},
				{Name: "unidade", Kind: KindText},
				{Name: "data_medicao", Kind: KindDate},
				{Name: "conforme", Kind: KindBool},
			},
		},
		{
			Code: "ruido_ocupacional", Name: "Ruído Ocupacional", ProjectScoped: true,
			Fields: []FieldSpec{
				{Name: "local_medicao", Kind: KindText, Required: true},
				{Name: "nivel_db", Kind: KindNumber, Required: true},
				{Name: "data_medicao", Kind: KindDate, Required: true},
				{Name: "conforme", Kind: KindBool},
			},
		},
	}
}
