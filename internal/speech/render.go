package speech

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/meutreino/skill/internal/coach"
)

const (
	intervalCommand = "Alexa, intervalo no meu treino"
	resumeCommand   = "Alexa, pede pro Meu Treino continuar"
	startCommand    = "Alexa, começa meu treino"
)

// Renderer implements coach.Renderer with pt-BR phrasings.
type Renderer struct {
	choose Chooser
}

var _ coach.Renderer = (*Renderer)(nil)

// NewRenderer creates a renderer that varies phrasing with c.
func NewRenderer(c Chooser) *Renderer {
	return &Renderer{choose: c}
}

func (r *Renderer) pick(options []string) string {
	return options[r.choose.Intn(len(options))]
}

// Duration names a rest interval, e.g. "1 minuto e 30 segundos".
func Duration(seconds int) string {
	if seconds < 60 {
		return plural(seconds, "segundo", "segundos")
	}
	out := plural(seconds/60, "minuto", "minutos")
	if s := seconds % 60; s > 0 {
		out += " e " + plural(s, "segundo", "segundos")
	}
	return out
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return strconv.Itoa(n) + " " + many
}

// count speaks small feminine counts as words.
func count(n int) string {
	switch n {
	case 1:
		return "uma"
	case 2:
		return "duas"
	default:
		return strconv.Itoa(n)
	}
}

func sets(n int) string {
	if n == 1 {
		return "uma série"
	}
	return count(n) + " séries"
}

func reps(n int) string {
	if n == 1 {
		return "uma repetição"
	}
	return count(n) + " repetições"
}

// workoutList joins names as "Treino A, Treino B e Treino C".
func workoutList(names []string) string {
	spoken := make([]string, len(names))
	for i, n := range names {
		spoken[i] = "Treino " + n
	}
	switch len(spoken) {
	case 0:
		return ""
	case 1:
		return spoken[0]
	default:
		return strings.Join(spoken[:len(spoken)-1], ", ") + " e " + spoken[len(spoken)-1]
	}
}

func sentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?") {
		return s
	}
	return s + "."
}

func (r *Renderer) Welcome(d coach.LaunchData) coach.Text {
	available := "disponíveis"
	noun := "treinos"
	if len(d.Workouts) == 1 {
		available, noun = "disponível", "treino"
	}
	list := fmt.Sprintf("Você possui %d %s %s: %s.", len(d.Workouts), noun, available, workoutList(d.Workouts))

	greeting := "Olá"
	if d.FirstName != "" {
		greeting += " " + d.FirstName
	}
	var speech string
	if d.FirstTime {
		speech = fmt.Sprintf("%s! Seja bem-vindo ao seu primeiro treino! %s Qual treino deseja iniciar?", greeting, list)
	} else {
		speech = fmt.Sprintf("%s, bem-vindo de volta ao Meu Treino! %s Qual treino deseja iniciar?", greeting, list)
	}
	return coach.Text{Speech: speech, Reprompt: "Você tá aí? Qual dos treinos quer iniciar?"}
}

func (r *Renderer) Started(d coach.StartData) coach.Text {
	desc := d.Description
	if desc == "" {
		desc = "Treino " + d.WorkoutName
	}
	u := d.First
	var b strings.Builder
	fmt.Fprintf(&b, "%s! %s! ", fmt.Sprintf(r.pick(confirmations), desc), r.pick(kickoffs))
	fmt.Fprintf(&b, "O seu primeiro exercício é %s. Você fará %s de %s.", u.ExerciseName, sets(u.TotalSets), reps(u.Reps))
	if u.HowTo != "" {
		b.WriteString(" " + sentence(u.HowTo))
	}
	if d.FirstTime {
		fmt.Fprintf(&b, " Você precisa me informar toda vez que concluir uma série. Para isso, é só falar: %s. "+
			"Dessa forma saberei quando lhe avisar para dar seguimento ao treino. "+
			"Pode começar a sua primeira série de %s e quando terminá-la, diga: %s.", intervalCommand, u.ExerciseName, intervalCommand)
	} else {
		fmt.Fprintf(&b, " Pode começar a sua primeira série de %s, e quando terminar, me informe dizendo: %s.", u.ExerciseName, intervalCommand)
	}
	return coach.Text{Speech: b.String()}
}

func (r *Renderer) Interval(d coach.IntervalData) coach.Text {
	var b strings.Builder
	if d.Completed {
		fmt.Fprintf(&b, "%s! Essa foi a última série, treino concluído. Parabéns!", r.pick(acknowledgements))
		return coach.Text{Speech: b.String()}
	}
	fmt.Fprintf(&b, "%s! %s.", r.pick(acknowledgements), fmt.Sprintf(r.pick(restPhrases), Duration(d.RestSeconds)))
	switch {
	case d.Next.IsFinalSetOfFinalExercise:
		b.WriteString(" A próxima série será a última do seu treino.")
	case !d.SkipMotivation:
		b.WriteString(" " + r.pick(tips))
	}
	return coach.Text{Speech: b.String()}
}

func (r *Renderer) Reminder(d coach.IntervalData) string {
	u := d.Next
	switch {
	case d.Completed:
		return "Fim do seu intervalo. O seu treino está concluído! Se você gostou desse treino, não esqueça de nos avaliar com 5 estrelas. Obrigada!"
	case u.IsFinalSetOfFinalExercise && u.SetNumber > 1:
		return fmt.Sprintf("Fim do seu intervalo, faça a última série de %s, com mais %s, e seu treino estará terminado!", u.ExerciseName, reps(u.Reps))
	case u.SetNumber == 1:
		s := fmt.Sprintf("Fim do seu intervalo. Vamos para a primeira série de %s. Você fará %s de %s.", u.ExerciseName, sets(u.TotalSets), reps(u.Reps))
		if u.HowTo != "" {
			s += " " + sentence(u.HowTo)
		}
		if u.IsFinalSetOfFinalExercise {
			s += " Essa é a última série do seu treino!"
		}
		return s + fmt.Sprintf(" Pode começar a sua primeira série de %s.", u.ExerciseName)
	default:
		return fmt.Sprintf("Fim do seu intervalo, continue para a série %d de %s, fazendo mais %s.", u.SetNumber, u.ExerciseName, reps(u.Reps))
	}
}

func (r *Renderer) Resumed(d coach.ResumeData) coach.Text {
	return coach.Text{Speech: fmt.Sprintf("Vamos continuar com o treino! Continue para a série %d de %s.", d.Current.SetNumber, d.Current.ExerciseName)}
}

func (r *Renderer) Stopped() coach.Text {
	return coach.Text{Speech: fmt.Sprintf("Pausando o seu treino. Se quiser retomá-lo, diga: %s.", resumeCommand)}
}

func (r *Renderer) Ended() coach.Text {
	return coach.Text{Speech: fmt.Sprintf("Treino encerrado. Quando quiser treinar de novo, diga: %s.", startCommand)}
}

func (r *Renderer) Help() coach.Text {
	return coach.Text{
		Speech: fmt.Sprintf("Comece me pedindo para começar o seu treino. Em seguida, escolha entre uma das opções válidas. "+
			"Daí em frente, sempre que terminar uma série do seu exercício, me peça um intervalo dizendo: %s. "+
			"Se quiser começar um novo treino agora, é só me pedir.", intervalCommand),
		Reprompt: "Você ainda tá por aí? Se quiser treinar, me pede para começar o seu treino.",
	}
}

func (r *Renderer) Failure(d coach.FailureData) coach.Text {
	switch d.Kind {
	case coach.NoActiveSession:
		return coach.Text{Speech: fmt.Sprintf("Ops, parece que não há um treino em andamento. Para iniciar um novo treino, diga: %s.", startCommand)}
	case coach.WorkoutNotFound:
		if len(d.Workouts) == 0 {
			return coach.Text{Speech: "Parece que você ainda não tem um cadastro ou ainda não criou nenhum treino no meutreino.fit. " +
				"Acesse meutreino.fit, monte seus treinos e me chame novamente!"}
		}
		valid := workoutList(d.Workouts)
		return coach.Text{
			Speech:   fmt.Sprintf("O treino %s não está salvo nas suas notas. Escolha um treino válido, como: %s.", d.Subject, valid),
			Reprompt: fmt.Sprintf("Você ainda tá por aí? Se ainda quiser treinar, escolha um treino válido, como: %s.", valid),
		}
	case coach.EmptyWorkout:
		subject := d.Subject
		if subject == "" {
			subject = "treino"
		}
		return coach.Text{Speech: fmt.Sprintf("Parece que você ainda não adicionou nenhum exercício no seu %s. "+
			"Por favor, acesse meutreino.fit e adicione exercícios no seu treino.", subject)}
	case coach.IdentityUnavailable:
		return coach.Text{Speech: "Desculpe, parece que você não concedeu as permissões necessárias para que eu identifique o seu email e acesse a sua lista. " +
			"Por favor, conceda as permissões no aplicativo Alexa no seu celular e me chame novamente."}
	case coach.FetchFailed:
		return coach.Text{Speech: "Houve um erro ao sincronizar os seus treinos com o meutreino.fit. Por favor, tente novamente!"}
	case coach.InconsistentState:
		return coach.Text{Speech: "Desculpe, o treino em andamento foi alterado e não consegui continuar de onde você parou. Por favor, comece o treino novamente."}
	case coach.NothingToResume:
		return coach.Text{Speech: "Não há um treino em espera para retomar. Se você me pediu um intervalo no seu treino atual, por favor, me peça novamente pois entendi errado."}
	case coach.PermissionDenied:
		return coach.Text{Speech: fmt.Sprintf("Desculpe, parece que você não concedeu as permissões necessárias para que eu crie lembretes. "+
			"Por favor, conceda a permissão no aplicativo Alexa. Depois, é só falar de novo: %s.", intervalCommand)}
	default:
		return coach.Text{Speech: "Desculpa, pode repetir?", Reprompt: "Desculpa, pode repetir?"}
	}
}
