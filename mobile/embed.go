//go:build mobile

package mobile

import "embed"

// dataFS 移动端的内容与效果配置，data/ 需在构建前复制到 mobile/data
//
//go:embed data
var dataFS embed.FS
