package assets

import _ "embed" // 에셋 임베드용

// GamesYAML 는 미니게임 카탈로그 YAML이다.
//
//go:embed catalog/games.yml
var GamesYAML string
