// Package i18n translates user-facing strings. English text is the key.
package i18n

import (
	"log"
	"os"
	"strings"

	"github.com/jeandeaual/go-locale"
)

var lang string

var supported = []string{"pt", "es", "ru"}

var translations = map[string]map[string]string{
	"Timer is running": {
		"pt": "O timer está rodando",
		"es": "El temporizador está en marcha",
		"ru": "Таймер запущен",
	},
	"The timer is still running. Quit anyway?": {
		"pt": "O timer ainda está rodando. Sair mesmo assim?",
		"es": "El temporizador sigue en marcha. ¿Salir de todos modos?",
		"ru": "Таймер всё ещё работает. Всё равно выйти?",
	},
	"Unsaved changes": {
		"pt": "Alterações não salvas",
		"es": "Cambios sin guardar",
		"ru": "Несохранённые изменения",
	},
	"Your splits have been updated but not yet saved. Do you want to save them?": {
		"pt": "Seus splits foram alterados mas não salvos. Deseja salvá-los?",
		"es": "Tus splits cambiaron pero no se han guardado. ¿Quieres guardarlos?",
		"ru": "Сплиты изменены, но не сохранены. Сохранить их?",
	},
	"Save": {
		"pt": "Salvar",
		"es": "Guardar",
		"ru": "Сохранить",
	},
	"Discard": {
		"pt": "Descartar",
		"es": "Descartar",
		"ru": "Не сохранять",
	},
	"Cancel": {
		"pt": "Cancelar",
		"es": "Cancelar",
		"ru": "Отмена",
	},
	"Close": {
		"pt": "Fechar",
		"es": "Cerrar",
		"ru": "Закрыть",
	},
	"Load Splits...": {
		"pt": "Carregar Splits...",
		"es": "Cargar splits...",
		"ru": "Загрузить сплиты...",
	},
	"Save Splits...": {
		"pt": "Salvar Splits...",
		"es": "Guardar splits...",
		"ru": "Сохранить сплиты...",
	},
	"Edit Splits...": {
		"pt": "Editar Splits...",
		"es": "Editar splits...",
		"ru": "Редактировать сплиты...",
	},
	"Load Layout...": {
		"pt": "Carregar Layout...",
		"es": "Cargar diseño...",
		"ru": "Загрузить макет...",
	},
	"Settings": {
		"pt": "Configurações",
		"es": "Ajustes",
		"ru": "Настройки",
	},
	"Splits": {
		"pt": "Splits",
		"es": "Splits",
		"ru": "Сплиты",
	},
	"Edit Splits": {
		"pt": "Editar Splits",
		"es": "Editar splits",
		"ru": "Редактор сплитов",
	},
	"Game": {
		"pt": "Jogo",
		"es": "Juego",
		"ru": "Игра",
	},
	"Category": {
		"pt": "Categoria",
		"es": "Categoría",
		"ru": "Категория",
	},
	"Offset": {
		"pt": "Deslocamento",
		"es": "Desfase",
		"ru": "Смещение",
	},
	"Attempts": {
		"pt": "Tentativas",
		"es": "Intentos",
		"ru": "Попытки",
	},
	"Segment Name": {
		"pt": "Nome do Segmento",
		"es": "Nombre del segmento",
		"ru": "Сегмент",
	},
	"Split Time": {
		"pt": "Tempo do Split",
		"es": "Tiempo de split",
		"ru": "Время сплита",
	},
	"Segment Time": {
		"pt": "Tempo do Segmento",
		"es": "Tiempo de segmento",
		"ru": "Время сегмента",
	},
	"Best Segment": {
		"pt": "Melhor Segmento",
		"es": "Mejor segmento",
		"ru": "Лучший сегмент",
	},
	"Insert Above": {
		"pt": "Inserir Acima",
		"es": "Insertar arriba",
		"ru": "Вставить выше",
	},
	"Insert Below": {
		"pt": "Inserir Abaixo",
		"es": "Insertar debajo",
		"ru": "Вставить ниже",
	},
	"Remove Segment": {
		"pt": "Remover Segmento",
		"es": "Quitar segmento",
		"ru": "Удалить сегмент",
	},
	"Move Up": {
		"pt": "Mover para Cima",
		"es": "Subir",
		"ru": "Вверх",
	},
	"Move Down": {
		"pt": "Mover para Baixo",
		"es": "Bajar",
		"ru": "Вниз",
	},
	"OK": {
		"pt": "OK",
		"es": "Aceptar",
		"ru": "ОК",
	},
	"Hotkeys": {
		"pt": "Atalhos",
		"es": "Atajos",
		"ru": "Горячие клавиши",
	},
	"Clear": {
		"pt": "Limpar",
		"es": "Borrar",
		"ru": "Очистить",
	},
	"Press a key": {
		"pt": "Pressione uma tecla",
		"es": "Pulsa una tecla",
		"ru": "Нажмите клавишу",
	},
	"Error": {
		"pt": "Erro",
		"es": "Error",
		"ru": "Ошибка",
	},
	"Failed to save splits": {
		"pt": "Falha ao salvar splits",
		"es": "No se pudieron guardar los splits",
		"ru": "Не удалось сохранить сплиты",
	},
	"Failed to load splits": {
		"pt": "Falha ao carregar splits",
		"es": "No se pudieron cargar los splits",
		"ru": "Не удалось загрузить сплиты",
	},
	"Failed to load layout": {
		"pt": "Falha ao carregar layout",
		"es": "No se pudo cargar el diseño",
		"ru": "Не удалось загрузить макет",
	},
	"Failed to update splits": {
		"pt": "Falha ao atualizar splits",
		"es": "No se pudieron actualizar los splits",
		"ru": "Не удалось обновить сплиты",
	},
	"Failed to update hotkeys": {
		"pt": "Falha ao atualizar atalhos",
		"es": "No se pudieron actualizar los atajos",
		"ru": "Не удалось обновить горячие клавиши",
	},
	"Failed to re-enable hotkeys": {
		"pt": "Falha ao reativar atalhos",
		"es": "No se pudieron reactivar los atajos",
		"ru": "Не удалось включить горячие клавиши",
	},
	"Quit": {
		"pt": "Sair",
		"es": "Salir",
		"ru": "Выход",
	},
	"Sum of Best": {
		"pt": "Soma dos Melhores",
		"es": "Suma de mejores",
		"ru": "Сумма лучших",
	},
	"Start/Split": {
		"pt": "Iniciar/Split",
		"es": "Iniciar/Split",
		"ru": "Старт/Сплит",
	},
	"Reset": {
		"pt": "Reiniciar",
		"es": "Reiniciar",
		"ru": "Сброс",
	},
	"Undo": {
		"pt": "Desfazer",
		"es": "Deshacer",
		"ru": "Отменить",
	},
	"Skip": {
		"pt": "Pular",
		"es": "Saltar",
		"ru": "Пропустить",
	},
	"Pause": {
		"pt": "Pausar",
		"es": "Pausar",
		"ru": "Пауза",
	},
	"Browse...": {
		"pt": "Procurar...",
		"es": "Examinar...",
		"ru": "Обзор...",
	},
	"File": {
		"pt": "Arquivo",
		"es": "Archivo",
		"ru": "Файл",
	},
	"Replace file?": {
		"pt": "Substituir arquivo?",
		"es": "¿Reemplazar archivo?",
		"ru": "Заменить файл?",
	},
	"%s already exists. Replace it?": {
		"pt": "%s já existe. Substituir?",
		"es": "%s ya existe. ¿Reemplazarlo?",
		"ru": "%s уже существует. Заменить?",
	},
}

func init() {
	lang = detect()
	log.Printf("Language set to: %s", lang)
}

func detect() string {
	if forced := strings.TrimSpace(os.Getenv("SPLITTER_LANG")); forced != "" {
		log.Printf("SPLITTER_LANG is set to: '%s'", forced)
		return forced
	}

	userLocales, err := locale.GetLocales()
	if err != nil || len(userLocales) == 0 {
		log.Println("Could not get user locale, defaulting to english")
		return "en"
	}
	log.Printf("Detected user locale: %s", userLocales[0])
	return match(userLocales[0])
}

// match maps a locale such as "pt-BR" to a supported language, falling back to "en".
func match(userLocale string) string {
	for _, l := range supported {
		if strings.HasPrefix(userLocale, l) {
			return l
		}
	}
	return "en"
}

// T returns key in the current language, or key itself when there is no translation.
func T(key string) string {
	if translated, ok := translations[key][lang]; ok {
		return translated
	}
	return key
}

func GetLang() string {
	return lang
}
