// Package integrationlab fornece uma API REST temática em memória, usada como
// alvo de exercícios de testes de integração.
//
// Visão Geral:
// O serviço expõe coleções genéricas de entidades (ex: "missions",
// "characters", "traffic_sensors") agrupadas em temas, com operações CRUD
// completas. Rotas de entidade exigem um token estático no header X-API-Token
// e passam por um injetor de falhas configurável, que simula timeouts, rate
// limits e erros de servidor/validação para que suítes de teste dos alunos
// exercitem lógica de resiliência.
//
// Sub-Pacotes Principais:
//
// 1. pkg/themes:
//   - Catálogo somente-leitura de temas e seus tipos de entidade.
//   - Sobrescrita opcional via arquivo YAML (THEMES_FILE).
//
// 2. pkg/store:
//   - Coleções em memória por par (tema, tipo), com mutex por coleção.
//   - Ids sequenciais nunca reutilizados e timestamps created_at/updated_at.
//
// 3. pkg/faults:
//   - Sorteio ponderado de falhas com fonte de aleatoriedade injetável.
//   - Desfechos determinísticos para o endpoint /error-test.
//
// 4. pkg/transport:
//   - Roteamento (gorilla/mux), cadeia de middlewares (validação de rota,
//     auth, injeção de falha) e middleware de observabilidade (zerolog,
//     correlation id, métricas).
//
// 5. envloader / pkg/config:
//   - Configuração via variáveis de ambiente com tags "env"/"envDefault",
//     validada com go-playground/validator.
//
// Exemplo de Início Rápido:
//
//	PORT=5000 ERROR_RATE=0.2 TIMEOUT_SECONDS=2.0 go run ./cmd/server
//
// O endpoint GET /docs descreve toda a superfície HTTP disponível.
package integrationlab
