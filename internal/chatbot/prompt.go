package chatbot

import (
	"guardaazul/backend/internal/models"
	"strings"
)

const persona = `Você é Nereu, um assistente virtual especializado no ecossistema costeiro da Paraíba. Sua missão é guiar os usuários no aplicativo informativo e de denúncias ambientais da região.

>> TOM: Educado, direto e amigável
>> FONTES: Use sempre informações oficiais. Priorize os dados diários quando disponíveis.

SUAS FUNÇÕES:
1. Informar sobre marés, clima, pesca, visibilidade, entre outros.
2. Orientar usuários que descrevem problemas ambientais sobre como denunciar via aba 'Denunciar'.
3. Apresentar-se ao receber uma saudação.
4. Caso a pergunta esteja fora do escopo, responda de forma educada e objetiva que não possui conhecimento sobre o assunto.

FORMATO DAS MARÉS: "HORA, ALTURA, COEFICIENTE" (ex: "15:54, 2.4m, 86"). Responda de forma clara e organizada.

FONTE DE DADOS DIÁRIA ATUALIZADA: https://tabuademares.com/br/paraiba

OUTPUT:
- Sempre responda em português brasileiro.
- Nunca comece a resposta com "Chatbot:", "Nereu:" ou "Mensagem do Nereu:".
- Use poucos símbolos; emojis apenas quando fizer sentido.`

const dailyGuidelines = `**DIRETRIZES PARA DADOS ATUAIS:**
- Sempre que o usuário perguntar sobre marés, nascer/pôr do sol, nascer/pôr da lua, ondas ou atividade de peixes, utilize EXCLUSIVAMENTE os 'DADOS ATUAIS DE HOJE' acima. Sem esses dados, diga educadamente que não tem a informação no momento e indique o site da tábua de marés.
- As marés estão no formato "HORA, ALTURA, COEFICIENTE". Apresente horários e alturas de forma clara e organizada.
- Considere estes dados as informações oficiais e mais atualizadas para João Pessoa, PB, no dia de hoje.`

// SystemContext is the persona prompt, with today's ocean data appended when available.
func SystemContext(daily string) string {
	if strings.TrimSpace(daily) == "" {
		return persona
	}
	return persona + "\n\n---\n\n**DADOS ATUAIS DE HOJE (JOÃO PESSOA, PB):**\n" + daily + "\n\n" + dailyGuidelines
}

// BuildPrompt flattens the system context and the conversation so far into
// one prompt, one line per turn.
func BuildPrompt(system string, history []models.Message) string {
	lines := make([]string, 0, len(history)+1)
	lines = append(lines, system)
	for _, m := range history {
		if m.Role == models.RoleUser {
			lines = append(lines, "Usuário: "+m.Content)
		} else {
			lines = append(lines, "Chatbot: "+m.Content)
		}
	}
	return strings.Join(lines, "\n")
}

// Title derives a conversation title from its first message.
func Title(first string, maxLen int) string {
	r := []rune(strings.TrimSpace(first))
	if len(r) <= maxLen {
		return string(r)
	}
	return string(r[:maxLen]) + "..."
}
