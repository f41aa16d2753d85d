package config

import (
	"strconv"
	"strings"
)

// ApplyKVOverrides applies free-form -c key=value overrides. Unknown keys and
// unparsable values are ignored.
func ApplyKVOverrides(cfg Config, overrides []string) Config {
	if len(overrides) == 0 {
		return cfg
	}
	for _, raw := range overrides {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		switch key {
		case "user_id":
			cfg.UserID = val
		case "user_name":
			cfg.UserName = val
		case "history_path":
			cfg.HistoryPath = val
		case "log_path":
			cfg.LogPath = val
		case "log_level":
			cfg.LogLevel = val
		case "page_size":
			if n, err := strconv.Atoi(val); err == nil {
				cfg.PageSize = n
			}
		case "is_last_page":
			if b, err := strconv.ParseBool(val); err == nil {
				cfg.IsLastPage = &b
			}
		case "on_end_reached_threshold":
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				cfg.Threshold = f
			}
		case "keyboard_dismiss_behavior":
			cfg.KeyboardDismissBehavior = val
		case "scroll_physics":
			cfg.ScrollPhysics = val
		case "animation.enter_ms":
			setInt(&cfg.Animation.EnterMS, val)
		case "animation.exit_ms":
			setInt(&cfg.Animation.ExitMS, val)
		case "animation.loading_reveal_ms":
			setInt(&cfg.Animation.LoadingRevealMS, val)
		case "animation.loading_hide_ms":
			setInt(&cfg.Animation.LoadingHideMS, val)
		case "animation.auto_scroll_delay_ms":
			setInt(&cfg.Animation.AutoScrollDelayMS, val)
		case "animation.auto_scroll_ms":
			setInt(&cfg.Animation.AutoScrollMS, val)
		case "animation.frame_ms":
			setInt(&cfg.Animation.FrameMS, val)
		}
	}
	return cfg
}

func setInt(dst *int, val string) {
	if n, err := strconv.Atoi(val); err == nil {
		*dst = n
	}
}
