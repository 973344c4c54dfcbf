// Package language normalizes the catalog language passed to the import
// tool. Inputs may be BCP 47 tags in any case ("zh_cn"), ISO 639-2 codes
// ("chi") or English names ("Chinese"); the output is a canonical tag such
// as "zh-CN".
package language
