// Copyright 2019 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"zombiezen.com/go/gfgraphql/fieldvalue"
	"zombiezen.com/go/gfgraphql/gravityforms"
)

// A fieldSetting is a Gravity Forms field setting and the interface that
// exposes it. Field kinds list the settings they support.
type fieldSetting struct {
	name   string
	iface  string
	fields map[string]FieldConfig
}

var fieldSettings = []fieldSetting{
	{"label_setting", "GfFieldWithLabelSetting", map[string]FieldConfig{
		"label": stringProp("Field label that will be displayed on the form and on the admin pages.", func(f *gravityforms.Field) string { return f.Label }),
	}},
	{"description_setting", "GfFieldWithDescriptionSetting", map[string]FieldConfig{
		"description": stringProp("Field description.", func(f *gravityforms.Field) string { return f.Description }),
	}},
	{"admin_label_setting", "GfFieldWithAdminLabelSetting", map[string]FieldConfig{
		"adminLabel": stringProp("When specified, the value of this property will be used on the admin pages instead of the label.", func(f *gravityforms.Field) string { return f.AdminLabel }),
	}},
	{"rules_setting", "GfFieldWithRulesSetting", map[string]FieldConfig{
		"isRequired":   boolProp("Determines if the field requires the user to enter a value.", func(f *gravityforms.Field) gravityforms.Flag { return f.IsRequired }),
		"errorMessage": stringProp("Contains the message that is displayed for fields that fail validation.", func(f *gravityforms.Field) string { return f.ErrorMessage }),
	}},
	{"duplicate_setting", "GfFieldWithDuplicatesSetting", map[string]FieldConfig{
		"shouldAllowDuplicates": prop("Boolean", "Determines if the field allows duplicate submissions.", func(f *gravityforms.Field) interface{} { return !bool(f.NoDuplicates) }),
	}},
	{"placeholder_setting", "GfFieldWithPlaceholderSetting", map[string]FieldConfig{
		"placeholder": stringProp("Placeholder text to give the user a hint on how to fill out the field.", func(f *gravityforms.Field) string { return f.Placeholder }),
	}},
	{"default_value_setting", "GfFieldWithDefaultValueSetting", map[string]FieldConfig{
		"defaultValue": stringProp("Contains the default value for the field.", func(f *gravityforms.Field) string { return string(f.DefaultValue) }),
	}},
	{"size_setting", "GfFieldWithSizeSetting", map[string]FieldConfig{
		"size": enumProp("FormFieldSizeEnum", "Determines the size of the field when displayed on the page.", func(f *gravityforms.Field) string { return f.Size }),
	}},
	{"label_placement_setting", "GfFieldWithLabelPlacementSetting", map[string]FieldConfig{
		"labelPlacement":       enumProp("FormFieldLabelPlacementEnum", "The field label position.", func(f *gravityforms.Field) string { return f.LabelPlacement }),
		"descriptionPlacement": enumProp("FormFieldDescriptionPlacementEnum", "The placement of the field description.", func(f *gravityforms.Field) string { return f.DescriptionPlacement }),
	}},
	{"sub_label_placement_setting", "GfFieldWithSubLabelPlacementSetting", map[string]FieldConfig{
		"subLabelPlacement": enumProp("FormFieldSubLabelPlacementEnum", "The placement of the labels for the subfields within the group.", func(f *gravityforms.Field) string { return f.SubLabelPlacement }),
	}},
	{"prepopulate_field_setting", "GfFieldWithPrepopulateFieldSetting", map[string]FieldConfig{
		"canPrepopulate": boolProp("Determines if the field values can be dynamically populated.", func(f *gravityforms.Field) gravityforms.Flag { return f.AllowsPrepopulate }),
		"inputName":      stringProp("The parameter name used when dynamically populating the field.", func(f *gravityforms.Field) string { return f.InputName }),
	}},
	{"maxlen_setting", "GfFieldWithMaxLengthSetting", map[string]FieldConfig{
		"maxLength": prop("Int", "Specifies the maximum number of characters allowed in a text or textarea field.", func(f *gravityforms.Field) interface{} { return f.MaxLength }),
	}},
	{"choices_setting", "GfFieldWithChoicesSetting", map[string]FieldConfig{
		"choices": prop("[FormFieldChoice]", "The individual properties for each choice.", func(f *gravityforms.Field) interface{} {
			return choiceViews(f.Choices)
		}),
		"hasChoiceValue": boolProp("Determines if the field has a choice value distinct from its text.", func(f *gravityforms.Field) gravityforms.Flag { return f.EnableChoiceValue }),
	}},
	{"enable_enhanced_ui_setting", "GfFieldWithEnhancedUiSetting", map[string]FieldConfig{
		"hasEnhancedUI": boolProp("Determines if the field uses the enhanced dropdown.", func(f *gravityforms.Field) gravityforms.Flag { return f.EnableEnhancedUI }),
	}},
	{"other_choice_setting", "GfFieldWithOtherChoiceSetting", map[string]FieldConfig{
		"hasOtherChoice": boolProp("Determines if the field offers an \"other\" choice.", func(f *gravityforms.Field) gravityforms.Flag { return f.EnableOtherChoice }),
	}},
	{"select_all_choices_setting", "GfFieldWithSelectAllChoicesSetting", map[string]FieldConfig{
		"hasSelectAll": boolProp("Determines if the field offers a \"select all\" choice.", func(f *gravityforms.Field) gravityforms.Flag { return f.EnableSelectAll }),
	}},
	{"autocomplete_setting", "GfFieldWithAutocompleteSetting", map[string]FieldConfig{
		"hasAutocomplete": boolProp("Determines if the browser may autocomplete the field.", func(f *gravityforms.Field) gravityforms.Flag { return f.AutocompleteEnabled }),
	}},
	{"phone_format_setting", "GfFieldWithPhoneFormatSetting", map[string]FieldConfig{
		"phoneFormat": enumProp("PhoneFieldFormatEnum", "Determines the allowed format for phones.", func(f *gravityforms.Field) string { return f.PhoneFormat }),
	}},
	{"time_format_setting", "GfFieldWithTimeFormatSetting", map[string]FieldConfig{
		"timeFormat": enumProp("TimeFieldFormatEnum", "Determines how the time is displayed.", func(f *gravityforms.Field) string { return f.TimeFormat }),
	}},
	{"date_format_setting", "GfFieldWithDateFormatSetting", map[string]FieldConfig{
		"dateFormat": enumProp("DateFieldFormatEnum", "Determines how the date is displayed.", func(f *gravityforms.Field) string { return f.DateFormat }),
	}},
	{"date_input_type_setting", "GfFieldWithDateInputTypeSetting", map[string]FieldConfig{
		"dateType":         enumProp("DateFieldTypeEnum", "The type of date field to display.", func(f *gravityforms.Field) string { return f.DateType }),
		"calendarIconType": stringProp("Determines how the date field calendar icon is displayed.", func(f *gravityforms.Field) string { return f.CalendarIconType }),
	}},
	{"number_format_setting", "GfFieldWithNumberFormatSetting", map[string]FieldConfig{
		"numberFormat": enumProp("NumberFieldFormatEnum", "Specifies the format allowed for the number field.", func(f *gravityforms.Field) string { return f.NumberFormat }),
	}},
	{"range_setting", "GfFieldWithRangeSetting", map[string]FieldConfig{
		"rangeMin": prop("Float", "Minimum allowed value for a number field.", func(f *gravityforms.Field) interface{} { return optFloat(f.RangeMin) }),
		"rangeMax": prop("Float", "Maximum allowed value for a number field.", func(f *gravityforms.Field) interface{} { return optFloat(f.RangeMax) }),
	}},
	{"calculation_setting", "GfFieldWithCalculationSetting", map[string]FieldConfig{
		"isCalculation":       boolProp("Indicates whether the field is a calculation.", func(f *gravityforms.Field) gravityforms.Flag { return f.EnableCalculation }),
		"calculationFormula":  stringProp("The formula used for the number field.", func(f *gravityforms.Field) string { return f.CalculationFormula }),
		"calculationRounding": prop("Int", "The number of decimal places a calculation is rounded to.", func(f *gravityforms.Field) interface{} { return int(f.CalculationRound) }),
	}},
	{"address_setting", "GfFieldWithAddressSetting", map[string]FieldConfig{
		"addressType":    enumProp("AddressFieldTypeEnum", "Determines the type of address to be displayed.", func(f *gravityforms.Field) string { return f.AddressType }),
		"defaultCountry": stringProp("Contains the country that will be selected by default.", func(f *gravityforms.Field) string { return f.DefaultCountry }),
		"defaultState":   stringProp("Contains the state that will be selected by default.", func(f *gravityforms.Field) string { return f.DefaultState }),
	}},
	{"email_confirm_setting", "GfFieldWithEmailConfirmationSetting", map[string]FieldConfig{
		"hasEmailConfirmation": boolProp("Determines whether the email must be entered twice.", func(f *gravityforms.Field) gravityforms.Flag { return f.EmailConfirmEnabled }),
	}},
	{"password_strength_setting", "GfFieldWithPasswordStrengthSetting", map[string]FieldConfig{
		"hasPasswordStrengthIndicator": boolProp("Indicates whether the field displays the password strength indicator.", func(f *gravityforms.Field) gravityforms.Flag { return f.PasswordStrengthEnabled }),
		"minPasswordStrength":          enumProp("PasswordStrengthEnum", "The minimum password strength required.", func(f *gravityforms.Field) string { return f.MinPasswordStrength }),
	}},
	{"input_mask_setting", "GfFieldWithInputMaskSetting", map[string]FieldConfig{
		"hasInputMask":   boolProp("Determines whether the field uses an input mask.", func(f *gravityforms.Field) gravityforms.Flag { return f.InputMask }),
		"inputMaskValue": stringProp("The input mask.", func(f *gravityforms.Field) string { return f.InputMaskValue }),
	}},
	{"rich_text_editor_setting", "GfFieldWithRichTextEditorSetting", map[string]FieldConfig{
		"hasRichTextEditor": boolProp("Indicates whether the field uses the rich text editor interface.", func(f *gravityforms.Field) gravityforms.Flag { return f.UseRichTextEditor }),
	}},
	{"columns_setting", "GfFieldWithColumnsSetting", map[string]FieldConfig{
		"hasColumns": boolProp("Determines if the field should use multiple columns.", func(f *gravityforms.Field) gravityforms.Flag { return f.EnableColumns }),
		"columns": prop("[FormFieldChoice]", "The column labels of a multi-column field.", func(f *gravityforms.Field) interface{} {
			if !f.EnableColumns {
				return nil
			}
			return choiceViews(f.Choices)
		}),
	}},
	{"maxrows_setting", "GfFieldWithMaxRowsSetting", map[string]FieldConfig{
		"maxRows": prop("Int", "The maximum number of rows the user can add to the field.", func(f *gravityforms.Field) interface{} { return optInt(f.MaxRows) }),
	}},
	{"file_extensions_setting", "GfFieldWithFileExtensionsSetting", map[string]FieldConfig{
		"allowedExtensions": prop("[String]", "The file extensions that are allowed for upload.", func(f *gravityforms.Field) interface{} { return splitList(f.AllowedExtensions) }),
	}},
	{"multiple_files_setting", "GfFieldWithMultipleFilesSetting", map[string]FieldConfig{
		"canAcceptMultipleFiles": boolProp("Indicates whether multiple files may be uploaded.", func(f *gravityforms.Field) gravityforms.Flag { return f.MultipleFiles }),
		"maxFiles":               prop("Int", "The maximum number of files that can be uploaded.", func(f *gravityforms.Field) interface{} { return optInt(int(f.MaxFiles)) }),
	}},
	{"file_size_setting", "GfFieldWithFileSizeSetting", map[string]FieldConfig{
		"maxFileSize": prop("Int", "The maximum size, in megabytes, of an uploaded file.", func(f *gravityforms.Field) interface{} { return optInt(int(f.MaxFileSize)) }),
	}},
	{"content_setting", "GfFieldWithContentSetting", map[string]FieldConfig{
		"content": stringProp("Content of an HTML block field to be displayed on the form.", func(f *gravityforms.Field) string { return f.Content }),
	}},
	{"post_custom_field_setting", "GfFieldWithPostCustomFieldSetting", map[string]FieldConfig{
		"postMetaFieldName": stringProp("The post meta key to which the value is saved.", func(f *gravityforms.Field) string { return f.PostCustomFieldName }),
	}},
	{"base_price_setting", "GfFieldWithBasePriceSetting", map[string]FieldConfig{
		"price": prop("Float", "The base price of the product.", func(f *gravityforms.Field) interface{} { return fieldvalue.ParsePrice(f.BasePrice) }),
	}},
	{"product_field_setting", "GfFieldWithProductFieldSetting", map[string]FieldConfig{
		"productField": prop("Int", "The id of the product field this field is associated with.", func(f *gravityforms.Field) interface{} { return optInt(int(f.ProductField)) }),
	}},
	{"disable_quantity_setting", "GfFieldWithDisableQuantitySetting", map[string]FieldConfig{
		"isQuantityDisabled": boolProp("Determines whether the quantity input is hidden.", func(f *gravityforms.Field) gravityforms.Flag { return f.DisableQuantity }),
	}},
	{"checkbox_label_setting", "GfFieldWithCheckboxLabelSetting", map[string]FieldConfig{
		"checkboxLabel": stringProp("Text of the consent checkbox.", func(f *gravityforms.Field) string { return f.CheckboxLabel }),
	}},
	{"captcha_type_setting", "GfFieldWithCaptchaTypeSetting", map[string]FieldConfig{
		"captchaType":  enumProp("CaptchaTypeEnum", "Determines the type of CAPTCHA field to be used.", func(f *gravityforms.Field) string { return f.CaptchaType }),
		"captchaTheme": stringProp("The theme to be used for the reCAPTCHA field.", func(f *gravityforms.Field) string { return f.CaptchaTheme }),
	}},
	{"chained_selects_alignment_setting", "GfFieldWithChainedSelectsAlignmentSetting", map[string]FieldConfig{
		"chainedSelectsAlignment":          stringProp("Alignment of the dropdown fields.", func(f *gravityforms.Field) string { return f.ChainedSelectsAlignment }),
		"shouldHideInactiveChainedSelects": boolProp("Whether inactive dropdowns should be hidden.", func(f *gravityforms.Field) gravityforms.Flag { return f.ChainedSelectsHideInactive }),
	}},
	{"border_width_setting", "GfFieldWithBorderWidthSetting", map[string]FieldConfig{
		"borderWidth": enumProp("SignatureBorderWidthEnum", "Width of the border around the signature area.", func(f *gravityforms.Field) string { return string(f.BorderWidth) }),
	}},
	{"border_style_setting", "GfFieldWithBorderStyleSetting", map[string]FieldConfig{
		"borderStyle": enumProp("SignatureBorderStyleEnum", "Border style to be used around the signature area.", func(f *gravityforms.Field) string { return f.BorderStyle }),
	}},
	{"border_color_setting", "GfFieldWithBorderColorSetting", map[string]FieldConfig{
		"borderColor": stringProp("Color to be used for the border around the signature area.", func(f *gravityforms.Field) string { return f.BorderColor }),
	}},
	{"background_color_setting", "GfFieldWithBackgroundColorSetting", map[string]FieldConfig{
		"backgroundColor": stringProp("Color to be used for the background of the signature area.", func(f *gravityforms.Field) string { return f.BackgroundColor }),
	}},
	{"pen_color_setting", "GfFieldWithPenColorSetting", map[string]FieldConfig{
		"penColor": stringProp("Color of the pen to be used for the signature.", func(f *gravityforms.Field) string { return f.PenColor }),
	}},
	{"pen_size_setting", "GfFieldWithPenSizeSetting", map[string]FieldConfig{
		"penSize": prop("Int", "Size of the pen to be used for the signature.", func(f *gravityforms.Field) interface{} { return flexInt(f.PenSize) }),
	}},
	{"box_width_setting", "GfFieldWithBoxWidthSetting", map[string]FieldConfig{
		"boxWidth": prop("Int", "Width of the signature field in pixels.", func(f *gravityforms.Field) interface{} { return flexInt(f.BoxWidth) }),
	}},
}

// settingInterfaces returns the interface names of the named settings.
func settingInterfaces(names []string) []string {
	ifaces := make([]string, 0, len(names))
	for _, name := range names {
		s := settingByName(name)
		if s == nil {
			panic("unknown field setting " + name)
		}
		ifaces = append(ifaces, s.iface)
	}
	return ifaces
}

func settingByName(name string) *fieldSetting {
	for i := range fieldSettings {
		if fieldSettings[i].name == name {
			return &fieldSettings[i]
		}
	}
	return nil
}

func (c *catalog) registerSettings() {
	for _, s := range fieldSettings {
		c.iface(s.iface, InterfaceConfig{
			Description: "A Gravity Forms field with the " + s.name + " setting.",
			Interfaces:  []string{"FormField"},
			Fields:      s.fields,
			ResolveType: formFieldTypeName,
		})
	}
}
