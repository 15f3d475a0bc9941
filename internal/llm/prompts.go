package llm

import "fmt"

func questionPrompt(theme string) string {
	return fmt.Sprintf(`Por favor, crie uma pergunta interessante e desafiadora sobre %s.
A pergunta deve:
- Ser clara, bem formulada e direta
- Ter valor educacional
Orientações:
- O retorno deve ser somente a pergunta
- O retorno não deve incluir o pensamento da LLM
- O retorno deve ser em Português
- O retorno não deve ter nada além da pergunta`, theme)
}

func assessmentPrompt(question, answer string) string {
	return fmt.Sprintf(`Analise a resposta dada para a pergunta abaixo:

Pergunta: %s
Resposta: %s

Sua tarefa é:
1. Avaliar a resposta comparando com a resposta ideal.
2. Fornecer um feedback detalhado, apontando os acertos, erros e sugestões de melhoria.
3. Atribuir um score em percentual (0%% a 100%%) que indique o quão correta a resposta está.

Retorne somente um objeto JSON, sem nenhum texto adicional, no seguinte formato:
{
    "score": "XX%%",
    "feedback": "Seu feedback detalhado aqui..."
}`, question, answer)
}
