package speech

var acknowledgements = []string{
	"Ok",
	"Certo",
	"Beleza",
	"Tudo bem",
	"Pode deixar",
	"Deixa comigo",
	"Show",
	"Tá bom",
	"Entendido",
}

// restPhrases take the spoken rest duration.
var restPhrases = []string{
	"Vou te lembrar de retomar a sua série em %s",
	"Daqui a %s eu te aviso",
	"Em %s voltaremos com a próxima série",
	"Daqui a %s a gente continua",
	"Te aviso em %s",
}

var kickoffs = []string{
	"Vamos começar",
	"Vamos lá",
	"Vamos nessa",
	"Bora começar",
	"Bora lá",
}

// confirmations take the workout description.
var confirmations = []string{
	"Certo, %s",
	"Iniciando o %s",
	"%s então",
	"Tudo certo pro seu %s",
	"Ok, %s",
}

var tips = []string{
	"Aproveite para se hidratar se você estiver com sede.",
	"Lembre-se de aumentar a intensidade ou a carga do seu exercício se estiver muito fácil.",
	"Respire corretamente durante as séries, isso alivia a pressão no seu corpo durante a execução.",
	"Tenha uma alimentação saudável para complementar o seu treino.",
	"Lembre-se que o descanso deve ser compatível com o esforço, então tire dias para descansar.",
	"Cuidado com a sua postura durante a execução dos exercícios.",
	"Vamos lá, falta pouco agora!",
	"Você está indo muito bem, continua assim!",
	"Tô gostando de ver!",
	"Acredite em si mesmo, você é mais forte do que pensa!",
	"Cada gota de suor é um passo mais próximo do seu objetivo!",
	"Seja consistente e os resultados virão!",
	"Lembre-se que o importante é progredir, não importa o quão devagar você vá!",
	"Cada dia é uma nova oportunidade para melhorar!",
	"Não compare seu progresso com o dos outros, compare com o seu próprio ontem!",
	"A disciplina é a ponte entre metas e realizações!",
	"Não importa o quão devagar você vá, desde que você não pare!",
	"Não pare até se orgulhar de onde você chegou!",
	"O sucesso não é para os rápidos, mas para os persistentes!",
}
