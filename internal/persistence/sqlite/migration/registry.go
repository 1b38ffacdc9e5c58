package migration

// registry holds every schema step the academy has shipped. Steps are never
// edited once released; schema changes append the next version.
var registry = []Migration{
	{
		Version:     "001",
		Description: "create scheduling tables",
		SQL: `
		CREATE TABLE agendas (
			id TEXT PRIMARY KEY,
			nome TEXT NOT NULL,
			tipo TEXT NOT NULL DEFAULT 'aulas',
			publica INTEGER NOT NULL DEFAULT 0,
			ativa INTEGER NOT NULL DEFAULT 1,
			professor_id TEXT NOT NULL DEFAULT '',
			local_id TEXT NOT NULL DEFAULT '',
			modalidade_id TEXT NOT NULL DEFAULT '',
			inicio TEXT NOT NULL DEFAULT '',
			fim TEXT NOT NULL DEFAULT '',
			intervalo_minutos INTEGER NOT NULL DEFAULT 0,
			dias_semana TEXT NOT NULL DEFAULT '[]',
			dias TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE aulas (
			id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			inicio TEXT NOT NULL,
			fim TEXT NOT NULL,
			agenda_id TEXT NOT NULL DEFAULT '',
			professor_id TEXT NOT NULL DEFAULT '',
			local_id TEXT NOT NULL DEFAULT '',
			modalidade_id TEXT NOT NULL DEFAULT '',
			professor_nome TEXT NOT NULL DEFAULT '',
			local_nome TEXT NOT NULL DEFAULT '',
			modalidade_nome TEXT NOT NULL DEFAULT '',
			aluno_ids TEXT NOT NULL DEFAULT '[]',
			aluno_nomes TEXT NOT NULL DEFAULT '[]',
			tipo_turma TEXT NOT NULL DEFAULT 'exclusiva',
			capacidade INTEGER NOT NULL DEFAULT 1,
			repetir INTEGER NOT NULL DEFAULT 0,
			repetir_id TEXT NOT NULL DEFAULT '',
			cobranca_categoria TEXT NOT NULL DEFAULT '',
			cobranca_modo TEXT NOT NULL DEFAULT '',
			cobranca_valor REAL NOT NULL DEFAULT 0,
			atividade TEXT NOT NULL DEFAULT '',
			observacoes TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
		CREATE INDEX idx_aulas_data ON aulas(data);
		CREATE INDEX idx_aulas_repetir ON aulas(repetir_id, data);
		CREATE INDEX idx_aulas_agenda ON aulas(agenda_id, data);
		`,
	},
	{
		Version:     "002",
		Description: "create people tables",
		SQL: `
		CREATE TABLE alunos (
			id TEXT PRIMARY KEY,
			nome TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			cpf TEXT NOT NULL DEFAULT '',
			telefone TEXT NOT NULL DEFAULT '',
			data_nasc TEXT NOT NULL DEFAULT '',
			responsavel_id TEXT NOT NULL DEFAULT '',
			endereco TEXT NOT NULL DEFAULT '{}',
			ativo INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE responsaveis (
			id TEXT PRIMARY KEY,
			nome TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			cpf TEXT NOT NULL DEFAULT '',
			telefone TEXT NOT NULL DEFAULT '',
			endereco TEXT NOT NULL DEFAULT '{}',
			ativo INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE equipe (
			id TEXT PRIMARY KEY,
			nome TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			cpf TEXT NOT NULL DEFAULT '',
			telefone TEXT NOT NULL DEFAULT '',
			funcao TEXT NOT NULL DEFAULT '',
			admin INTEGER NOT NULL DEFAULT 0,
			ativo INTEGER NOT NULL DEFAULT 1,
			password_hash TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE identity_keys (
			chave TEXT PRIMARY KEY,
			dono_id TEXT NOT NULL
		);
		CREATE INDEX idx_identity_keys_dono ON identity_keys(dono_id);
		`,
	},
	{
		Version:     "003",
		Description: "create catalog tables",
		SQL: `
		CREATE TABLE locais (
			id TEXT PRIMARY KEY,
			nome TEXT NOT NULL,
			descricao TEXT NOT NULL DEFAULT '',
			ativo INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE modalidades (
			id TEXT PRIMARY KEY,
			nome TEXT NOT NULL,
			descricao TEXT NOT NULL DEFAULT '',
			ativo INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE planos_cobranca (
			id TEXT PRIMARY KEY,
			nome TEXT NOT NULL,
			categoria TEXT NOT NULL DEFAULT '',
			modo TEXT NOT NULL DEFAULT '',
			valor REAL NOT NULL DEFAULT 0,
			ativo INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE planos_aula (
			id TEXT PRIMARY KEY,
			nome TEXT NOT NULL,
			descricao TEXT NOT NULL DEFAULT '',
			modalidade_id TEXT NOT NULL DEFAULT '',
			ativo INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
		`,
	},
	{
		Version:     "004",
		Description: "create session table",
		SQL: `
		CREATE TABLE sessions (
			token TEXT PRIMARY KEY,
			staff_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			expires_at TEXT NOT NULL,
			revoked_at TEXT
		);
		CREATE INDEX idx_sessions_expires ON sessions(expires_at);
		`,
	},
}

// Registered returns the compiled-in migration registry.
func Registered() Source {
	return NewSource(registry...)
}
